package domain

import "time"

const (
	ActivitySymptomCheck = "symptom_check"
	ActivityAppointment  = "appointment"
)

type Stats struct {
	SymptomChecks int `json:"symptomChecks"`
	Appointments  int `json:"appointments"`
	Orders        int `json:"orders"`
	HealthRecords int `json:"healthRecords"`
}

type ActivityItem struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Severity    Severity  `json:"severity,omitempty"`
	Status      string    `json:"status,omitempty"`
}
