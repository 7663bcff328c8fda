package domain

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

var appointmentEdges = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled: {StatusCompleted, StatusCancelled},
}

// ParseAppointmentStatus accepts only the three known statuses.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch st := AppointmentStatus(s); st {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether next is reachable from s in one step.
// Completed and cancelled are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentEdges[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	UserID    uuid.UUID         `db:"user_id" json:"user_id"`
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Date      time.Time         `db:"appointment_date" json:"appointment_date"`
	TimeSlot  string            `db:"appointment_time" json:"appointment_time"`
	Status    AppointmentStatus `db:"status" json:"status"`
	Notes     string            `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

type AppointmentDetail struct {
	Appointment
	Doctor Doctor `db:"doctor" json:"doctor"`
}
