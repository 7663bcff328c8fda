package store

import (
	"context"

	"github.com/google/uuid"

	"healthportal/m/domain"
)

func (s *Store) InsertSession(ctx context.Context, sess domain.Session) error {
	err := insert(ctx, s.db, "sessions", Row{
		"id":         sess.ID,
		"user_id":    sess.UserID,
		"created_at": sess.CreatedAt,
		"expires_at": sess.ExpiresAt,
	})
	return wrap("insert session", err)
}

func (s *Store) Session(ctx context.Context, id uuid.UUID) (domain.Session, bool, error) {
	var sess domain.Session
	found, err := selectOne(ctx, s.db, &sess, `SELECT id, user_id, created_at, expires_at FROM sessions`, Filter{"id": id})
	return sess, found, wrap("get session", err)
}

func (s *Store) DeleteSession(ctx context.Context, id uuid.UUID) error {
	_, err := remove(ctx, s.db, "sessions", Filter{"id": id})
	return wrap("delete session", err)
}
