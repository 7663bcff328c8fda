package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor is read-only reference data. AvailableDays and AvailableHours are
// descriptive only; booking does not enforce them.
type Doctor struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	Specialty       string          `db:"specialty" json:"specialty"`
	ConsultationFee decimal.Decimal `db:"consultation_fee" json:"consultation_fee"`
	Rating          float64         `db:"rating" json:"rating"`
	ExperienceYears int             `db:"experience_years" json:"experience_years"`
	Bio             string          `db:"bio" json:"bio"`
	AvailableDays   StringList      `db:"available_days" json:"available_days"`
	AvailableHours  string          `db:"available_hours" json:"available_hours"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
