package store

import (
	"context"

	"github.com/google/uuid"

	"healthportal/m/domain"
)

func (s *Store) InsertNotification(ctx context.Context, n domain.Notification) error {
	err := insert(ctx, s.db, "notifications", Row{
		"id":         n.ID,
		"user_id":    n.UserID,
		"title":      n.Title,
		"message":    n.Message,
		"type":       n.Type,
		"read":       n.Read,
		"created_at": n.CreatedAt,
	})
	return wrap("insert notification", err)
}

// Notifications returns the user's latest notifications, newest first.
func (s *Store) Notifications(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	out := []domain.Notification{}
	if err := selectAll(ctx, s.db, &out, `SELECT id, user_id, title, message, type, read, created_at FROM notifications`,
		Filter{"user_id": userID}, ` ORDER BY created_at DESC LIMIT `+itoa(limit)); err != nil {
		return nil, wrap("list notifications", err)
	}
	return out, nil
}
