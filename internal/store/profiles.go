package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"healthportal/m/domain"
)

const profileColumns = `id, email, password_hash, full_name, phone, date_of_birth, gender, created_at, updated_at`

func (s *Store) InsertProfile(ctx context.Context, p domain.Profile) error {
	err := insert(ctx, s.db, "profiles", Row{
		"id":            p.ID,
		"email":         strings.ToLower(p.Email),
		"password_hash": p.PasswordHash,
		"full_name":     p.FullName,
		"phone":         p.Phone,
		"date_of_birth": p.DateOfBirth,
		"gender":        p.Gender,
		"created_at":    p.CreatedAt,
		"updated_at":    p.UpdatedAt,
	})
	return wrap("insert profile", err)
}

func (s *Store) ProfileByID(ctx context.Context, id uuid.UUID) (domain.Profile, bool, error) {
	var p domain.Profile
	found, err := selectOne(ctx, s.db, &p, `SELECT `+profileColumns+` FROM profiles`, Filter{"id": id})
	return p, found, wrap("get profile", err)
}

func (s *Store) ProfileByEmail(ctx context.Context, email string) (domain.Profile, bool, error) {
	var p domain.Profile
	found, err := selectOne(ctx, s.db, &p, `SELECT `+profileColumns+` FROM profiles`,
		Filter{"email": strings.ToLower(strings.TrimSpace(email))})
	return p, found, wrap("get profile by email", err)
}

// UpdateProfile rewrites the editable profile fields.
func (s *Store) UpdateProfile(ctx context.Context, p domain.Profile) (bool, error) {
	n, err := update(ctx, s.db, "profiles", Row{
		"full_name":     p.FullName,
		"phone":         p.Phone,
		"date_of_birth": p.DateOfBirth,
		"gender":        p.Gender,
		"updated_at":    p.UpdatedAt,
	}, Filter{"id": p.ID})
	if err != nil {
		return false, wrap("update profile", err)
	}
	return n > 0, nil
}
