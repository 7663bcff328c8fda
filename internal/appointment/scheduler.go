// Package appointment books doctor appointments into the fixed daily slots
// and moves them through scheduled → completed | cancelled.
package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"healthportal/m/domain"
)

var slots = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}

// Slots returns the bookable time slots of a day.
func Slots() []string {
	return append([]string(nil), slots...)
}

func validSlot(slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

type Store interface {
	Doctors(ctx context.Context) ([]domain.Doctor, error)
	DoctorByID(ctx context.Context, id uuid.UUID) (domain.Doctor, bool, error)
	InsertAppointment(ctx context.Context, a domain.Appointment) error
	Appointment(ctx context.Context, userID, id uuid.UUID) (domain.Appointment, bool, error)
	UpdateAppointmentStatus(ctx context.Context, userID, id uuid.UUID, from, to domain.AppointmentStatus, now time.Time) (bool, error)
	AppointmentsForUser(ctx context.Context, userID uuid.UUID) ([]domain.AppointmentDetail, error)
}

// SlotGuard can refuse a (doctor, day, slot) before it is booked. Without
// one, the same slot may be booked more than once.
type SlotGuard interface {
	Claim(ctx context.Context, doctorID uuid.UUID, day time.Time, slot string) error
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLocation sets the zone in which "today" is computed for the past-date check.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

func WithSlotGuard(g SlotGuard) Option {
	return func(s *Scheduler) { s.guard = g }
}

type Scheduler struct {
	store Store
	guard SlotGuard
	now   func() time.Time
	loc   *time.Location
}

func New(store Store, opts ...Option) *Scheduler {
	s := &Scheduler{store: store, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type BookRequest struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"appointment_date"`
	TimeSlot string    `json:"appointment_time"`
	Notes    string    `json:"notes"`
}

const dateLayout = "2006-01-02"

// Book creates a scheduled appointment for the session's user.
func (s *Scheduler) Book(ctx context.Context, sess domain.Session, req BookRequest) (domain.Appointment, error) {
	if err := sess.Check(); err != nil {
		return domain.Appointment{}, err
	}
	if req.DoctorID == uuid.Nil {
		return domain.Appointment{}, domain.Invalid("doctor_id", "is required")
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		return domain.Appointment{}, domain.Invalid("appointment_date", "is required")
	}
	slot := strings.TrimSpace(req.TimeSlot)
	if slot == "" {
		return domain.Appointment{}, domain.Invalid("appointment_time", "is required")
	}

	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return domain.Appointment{}, domain.Invalid("appointment_date", "must be YYYY-MM-DD")
	}
	today := s.now().In(s.loc).Format(dateLayout)
	if date < today {
		return domain.Appointment{}, domain.Invalid("appointment_date", "is in the past")
	}
	if !validSlot(slot) {
		return domain.Appointment{}, domain.Invalid("appointment_time", "must be one of "+strings.Join(slots, ", "))
	}

	if _, found, err := s.store.DoctorByID(ctx, req.DoctorID); err != nil {
		return domain.Appointment{}, err
	} else if !found {
		return domain.Appointment{}, domain.Invalid("doctor_id", "unknown doctor")
	}
	if s.guard != nil {
		if err := s.guard.Claim(ctx, req.DoctorID, day, slot); err != nil {
			return domain.Appointment{}, err
		}
	}

	now := s.now().UTC()
	appt := domain.Appointment{
		ID:        uuid.New(),
		UserID:    sess.UserID,
		DoctorID:  req.DoctorID,
		Date:      day,
		TimeSlot:  slot,
		Status:    domain.StatusScheduled,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertAppointment(ctx, appt); err != nil {
		return domain.Appointment{}, err
	}
	return appt, nil
}

// ListForUser returns the user's appointments with doctor data, latest
// appointment date first.
func (s *Scheduler) ListForUser(ctx context.Context, sess domain.Session) ([]domain.AppointmentDetail, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}
	return s.store.AppointmentsForUser(ctx, sess.UserID)
}

// Transition moves one of the user's appointments to status.
func (s *Scheduler) Transition(ctx context.Context, sess domain.Session, id uuid.UUID, status string) (domain.Appointment, error) {
	if err := sess.Check(); err != nil {
		return domain.Appointment{}, err
	}
	next, ok := domain.ParseAppointmentStatus(strings.TrimSpace(status))
	if !ok {
		return domain.Appointment{}, domain.Invalid("status", "unknown status "+status)
	}
	appt, found, err := s.store.Appointment(ctx, sess.UserID, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if !found {
		return domain.Appointment{}, domain.ErrNotFound
	}
	if !appt.Status.CanTransitionTo(next) {
		return domain.Appointment{}, &domain.InvalidTransitionError{From: appt.Status, To: next}
	}

	now := s.now().UTC()
	changed, err := s.store.UpdateAppointmentStatus(ctx, sess.UserID, id, appt.Status, next, now)
	if err != nil {
		return domain.Appointment{}, err
	}
	if !changed {
		// another transition won the race; report against the status it left
		current, found, err := s.store.Appointment(ctx, sess.UserID, id)
		if err != nil {
			return domain.Appointment{}, err
		}
		if !found {
			return domain.Appointment{}, domain.ErrNotFound
		}
		return domain.Appointment{}, &domain.InvalidTransitionError{From: current.Status, To: next}
	}
	appt.Status = next
	appt.UpdatedAt = now
	return appt, nil
}

func (s *Scheduler) Doctors(ctx context.Context) ([]domain.Doctor, error) {
	return s.store.Doctors(ctx)
}
