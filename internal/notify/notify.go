// Package notify delivers user-facing notifications. Delivery is
// fire-and-forget: callers never see a failure.
package notify

//go:generate mockgen -destination=../api/mock_notifier_test.go -package=api healthportal/m/internal/notify Notifier

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"healthportal/m/domain"
)

type Notifier interface {
	Notify(ctx context.Context, sess domain.Session, n domain.Notification)
}

type Store interface {
	InsertNotification(ctx context.Context, n domain.Notification) error
	Notifications(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error)
}

const listLimit = 50

// StoreNotifier persists notifications in the background.
type StoreNotifier struct {
	store Store
	wg    sync.WaitGroup
	now   func() time.Time
}

func NewStoreNotifier(store Store) *StoreNotifier {
	return &StoreNotifier{store: store, now: time.Now}
}

func (s *StoreNotifier) Notify(ctx context.Context, sess domain.Session, n domain.Notification) {
	if sess.UserID == uuid.Nil {
		return
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.UserID = sess.UserID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}

	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.store.InsertNotification(ctx, n); err != nil {
			log.Printf("notify: unable to store %q for %s: %v", n.Title, n.UserID, err)
		}
	}()
}

// Wait blocks until every notification handed to Notify has been written.
func (s *StoreNotifier) Wait() {
	s.wg.Wait()
}

// List returns the user's latest notifications, newest first.
func (s *StoreNotifier) List(ctx context.Context, sess domain.Session) ([]domain.Notification, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}
	return s.store.Notifications(ctx, sess.UserID, listLimit)
}

func Success(title, message string) domain.Notification {
	return domain.Notification{Title: title, Message: message, Type: domain.NotificationSuccess}
}

func Failure(title string, err error) domain.Notification {
	return domain.Notification{Title: title, Message: err.Error(), Type: domain.NotificationError}
}
