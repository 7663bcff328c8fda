// Package jobs runs the scheduled background work: a daily pass that reminds
// users of tomorrow's appointments.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"healthportal/m/domain"
	"healthportal/m/internal/notify"
)

type Store interface {
	AppointmentsOn(ctx context.Context, day time.Time, status domain.AppointmentStatus) ([]domain.AppointmentDetail, error)
}

type Runner struct {
	store    Store
	notifier notify.Notifier
	cron     *cron.Cron
	now      func() time.Time
}

func New(store Store, notifier notify.Notifier) *Runner {
	return &Runner{
		store:    store,
		notifier: notifier,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Start registers the reminder job on schedule (standard five-field cron
// syntax) and starts the scheduler.
func (r *Runner) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		tomorrow := r.now().AddDate(0, 0, 1)
		n, err := r.RunReminders(context.Background(), tomorrow)
		if err != nil {
			log.Printf("jobs: reminder run failed: %v", err)
			return
		}
		log.Printf("jobs: sent %d appointment reminders", n)
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	r.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

// RunReminders notifies the owner of every scheduled appointment on day's
// calendar date and returns how many reminders were issued.
func (r *Runner) RunReminders(ctx context.Context, day time.Time) (int, error) {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	due, err := r.store.AppointmentsOn(ctx, date, domain.StatusScheduled)
	if err != nil {
		return 0, err
	}
	for _, a := range due {
		r.notifier.Notify(ctx, domain.Session{UserID: a.UserID}, domain.Notification{
			Title:   "Appointment reminder",
			Message: fmt.Sprintf("You have an appointment with %s on %s at %s", a.Doctor.Name, date.Format("2006-01-02"), a.TimeSlot),
			Type:    domain.NotificationReminder,
		})
	}
	return len(due), nil
}
