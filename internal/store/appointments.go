package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"healthportal/m/domain"
	"healthportal/m/internal/cache"
)

const appointmentColumns = `id, user_id, doctor_id, appointment_date, appointment_time, status, notes, created_at, updated_at`

const appointmentDetailQuery = `SELECT a.id, a.user_id, a.doctor_id, a.appointment_date, a.appointment_time, a.status, a.notes,
        a.created_at, a.updated_at,
        d.id AS "doctor.id", d.name AS "doctor.name", d.specialty AS "doctor.specialty",
        d.consultation_fee AS "doctor.consultation_fee", d.rating AS "doctor.rating",
        d.experience_years AS "doctor.experience_years", d.bio AS "doctor.bio",
        d.available_days AS "doctor.available_days", d.available_hours AS "doctor.available_hours",
        d.created_at AS "doctor.created_at"
    FROM appointments a
    JOIN doctors d ON d.id = a.doctor_id`

func (s *Store) InsertAppointment(ctx context.Context, a domain.Appointment) error {
	err := insert(ctx, s.db, "appointments", Row{
		"id":               a.ID,
		"user_id":          a.UserID,
		"doctor_id":        a.DoctorID,
		"appointment_date": a.Date,
		"appointment_time": a.TimeSlot,
		"status":           string(a.Status),
		"notes":            a.Notes,
		"created_at":       a.CreatedAt,
		"updated_at":       a.UpdatedAt,
	})
	if err != nil {
		return wrap("insert appointment", err)
	}
	s.cache.Invalidate(cache.Appointments)
	return nil
}

// Appointment looks up one of the user's appointments.
func (s *Store) Appointment(ctx context.Context, userID, id uuid.UUID) (domain.Appointment, bool, error) {
	var a domain.Appointment
	found, err := selectOne(ctx, s.db, &a, `SELECT `+appointmentColumns+` FROM appointments`,
		Filter{"id": id, "user_id": userID})
	return a, found, wrap("get appointment", err)
}

// UpdateAppointmentStatus moves the appointment from one status to another.
// It reports false when the row is missing or no longer in status from.
func (s *Store) UpdateAppointmentStatus(ctx context.Context, userID, id uuid.UUID, from, to domain.AppointmentStatus, now time.Time) (bool, error) {
	n, err := update(ctx, s.db, "appointments",
		Row{"status": string(to), "updated_at": now},
		Filter{"id": id, "user_id": userID, "status": string(from)})
	if err != nil {
		return false, wrap("update appointment status", err)
	}
	s.cache.Invalidate(cache.Appointments)
	return n > 0, nil
}

// AppointmentsForUser returns the user's appointments with doctor data, most
// recent appointment date first.
func (s *Store) AppointmentsForUser(ctx context.Context, userID uuid.UUID) ([]domain.AppointmentDetail, error) {
	return cache.Load(ctx, s.cache, cache.Appointments, userID, func(ctx context.Context) ([]domain.AppointmentDetail, error) {
		out := []domain.AppointmentDetail{}
		if err := selectAll(ctx, s.db, &out, appointmentDetailQuery, Filter{"a.user_id": userID},
			` ORDER BY a.appointment_date DESC, a.appointment_time DESC`); err != nil {
			return nil, wrap("list appointments", err)
		}
		return out, nil
	})
}

// RecentAppointments returns the n most recently booked appointments.
func (s *Store) RecentAppointments(ctx context.Context, userID uuid.UUID, n int) ([]domain.AppointmentDetail, error) {
	out := []domain.AppointmentDetail{}
	if err := selectAll(ctx, s.db, &out, appointmentDetailQuery, Filter{"a.user_id": userID},
		` ORDER BY a.created_at DESC LIMIT `+itoa(n)); err != nil {
		return nil, wrap("list recent appointments", err)
	}
	return out, nil
}

// AppointmentsOn lists appointments of every user on a given day with a status.
func (s *Store) AppointmentsOn(ctx context.Context, day time.Time, status domain.AppointmentStatus) ([]domain.AppointmentDetail, error) {
	out := []domain.AppointmentDetail{}
	if err := selectAll(ctx, s.db, &out, appointmentDetailQuery,
		Filter{"a.appointment_date": day, "a.status": string(status)}, ` ORDER BY a.appointment_time`); err != nil {
		return nil, wrap("list appointments by day", err)
	}
	return out, nil
}

func (s *Store) CountAppointments(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := count(ctx, s.db, "appointments", Filter{"user_id": userID})
	return n, wrap("count appointments", err)
}
