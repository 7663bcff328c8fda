package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the signed-in user context. It is created at sign-in, torn down
// at sign-out and handed explicitly to every core operation.
type Session struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Email     string    `db:"-" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// Check rejects a zero session before any store call is made.
func (s Session) Check() error {
	if s.UserID == uuid.Nil {
		return &ValidationError{Field: "session", Reason: "no signed-in user"}
	}
	return nil
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
