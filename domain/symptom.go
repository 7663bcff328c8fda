package domain

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Classification is the outcome of classifying a symptom set.
type Classification struct {
	Condition       string   `json:"condition"`
	Severity        Severity `json:"severity"`
	Recommendations []string `json:"recommendations"`
	Confidence      int      `json:"confidence"`
}

// SymptomCheck is append-only; Severity is derived once, at creation.
type SymptomCheck struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	UserID          uuid.UUID  `db:"user_id" json:"user_id"`
	Symptoms        StringList `db:"symptoms" json:"symptoms"`
	Condition       string     `db:"ai_diagnosis" json:"condition"`
	Severity        Severity   `db:"severity_level" json:"severity"`
	Recommendations string     `db:"recommendations" json:"recommendations"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
