// Package activity builds the dashboard: per-user counts and a merged feed of
// recent symptom checks and appointments.
package activity

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"healthportal/m/domain"
)

const (
	DefaultLimit = 5
	perSource    = 3
)

type Store interface {
	CountSymptomChecks(ctx context.Context, userID uuid.UUID) (int, error)
	CountAppointments(ctx context.Context, userID uuid.UUID) (int, error)
	CountOrders(ctx context.Context, userID uuid.UUID) (int, error)
	CountHealthRecords(ctx context.Context, userID uuid.UUID) (int, error)
	RecentSymptomChecks(ctx context.Context, userID uuid.UUID, n int) ([]domain.SymptomCheck, error)
	RecentAppointments(ctx context.Context, userID uuid.UUID, n int) ([]domain.AppointmentDetail, error)
}

type Aggregator struct {
	store Store
}

func New(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Stats runs the four counts concurrently. Any failure fails the whole call.
func (a *Aggregator) Stats(ctx context.Context, sess domain.Session) (domain.Stats, error) {
	if err := sess.Check(); err != nil {
		return domain.Stats{}, err
	}
	var stats domain.Stats
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range []struct {
		dst   *int
		count func(context.Context, uuid.UUID) (int, error)
	}{
		{&stats.SymptomChecks, a.store.CountSymptomChecks},
		{&stats.Appointments, a.store.CountAppointments},
		{&stats.Orders, a.store.CountOrders},
		{&stats.HealthRecords, a.store.CountHealthRecords},
	} {
		g.Go(func() error {
			n, err := c.count(ctx, sess.UserID)
			*c.dst = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

// RecentActivity merges the newest symptom checks and appointments, newest
// first. limit <= 0 means DefaultLimit.
func (a *Aggregator) RecentActivity(ctx context.Context, sess domain.Session, limit int) ([]domain.ActivityItem, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var (
		checks []domain.SymptomCheck
		appts  []domain.AppointmentDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		checks, err = a.store.RecentSymptomChecks(gctx, sess.UserID, perSource)
		return err
	})
	g.Go(func() (err error) {
		appts, err = a.store.RecentAppointments(gctx, sess.UserID, perSource)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(checks, appts, limit), nil
}

// Merge maps both sources to activity items and keeps the newest limit of
// them. Items with equal dates keep source order, symptom checks first.
func Merge(checks []domain.SymptomCheck, appts []domain.AppointmentDetail, limit int) []domain.ActivityItem {
	items := make([]domain.ActivityItem, 0, len(checks)+len(appts))
	for _, c := range checks {
		items = append(items, fromSymptomCheck(c))
	}
	for _, ap := range appts {
		items = append(items, fromAppointment(ap))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func fromSymptomCheck(c domain.SymptomCheck) domain.ActivityItem {
	shown := c.Symptoms
	if len(shown) > 3 {
		shown = shown[:3]
	}
	return domain.ActivityItem{
		Type:        domain.ActivitySymptomCheck,
		Title:       "Symptom Analysis",
		Description: "Analyzed symptoms: " + strings.Join(shown, ", "),
		Date:        c.CreatedAt,
		Severity:    c.Severity,
	}
}

func fromAppointment(ap domain.AppointmentDetail) domain.ActivityItem {
	return domain.ActivityItem{
		Type:        domain.ActivityAppointment,
		Title:       "Appointment with " + ap.Doctor.Name,
		Description: ap.Doctor.Specialty,
		Date:        ap.CreatedAt,
		Status:      string(ap.Status),
	}
}
