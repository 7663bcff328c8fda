package store

import (
	"context"

	"github.com/google/uuid"

	"healthportal/m/domain"
)

const doctorColumns = `id, name, specialty, consultation_fee, rating, experience_years, bio, available_days, available_hours, created_at`

func (s *Store) Doctors(ctx context.Context) ([]domain.Doctor, error) {
	doctors := []domain.Doctor{}
	if err := selectAll(ctx, s.db, &doctors, `SELECT `+doctorColumns+` FROM doctors`, nil, ` ORDER BY name`); err != nil {
		return nil, wrap("list doctors", err)
	}
	return doctors, nil
}

func (s *Store) DoctorByID(ctx context.Context, id uuid.UUID) (domain.Doctor, bool, error) {
	var d domain.Doctor
	found, err := selectOne(ctx, s.db, &d, `SELECT `+doctorColumns+` FROM doctors`, Filter{"id": id})
	return d, found, wrap("get doctor", err)
}
