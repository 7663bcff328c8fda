// Package storetest opens throwaway in-memory stores for package tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"healthportal/m/domain"
	"healthportal/m/internal/database"
	"healthportal/m/internal/migrations"
	"healthportal/m/internal/seed"
	"healthportal/m/internal/store"
)

// New returns a migrated, empty store backed by an in-memory SQLite database.
func New(t testing.TB) *store.Store {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return store.New(db)
}

// Seeded is New plus the embedded medicine and doctor catalogs.
func Seeded(t testing.TB) *store.Store {
	t.Helper()
	s := New(t)
	require.NoError(t, seed.Load(s.DB(), ""))
	return s
}

// User inserts a profile and returns a live session for it.
func User(t testing.TB, s *store.Store, email string) domain.Session {
	t.Helper()
	now := time.Now().UTC()
	p := domain.Profile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		FullName:     "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.InsertProfile(context.Background(), p))
	return domain.Session{ID: uuid.New(), UserID: p.ID, Email: email, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
}

// Medicine looks up a seeded medicine by name.
func Medicine(t testing.TB, s *store.Store, name string) domain.Medicine {
	t.Helper()
	all, err := s.Medicines(context.Background(), name)
	require.NoError(t, err)
	for _, m := range all {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("medicine %q not seeded", name)
	return domain.Medicine{}
}

// Doctor looks up a seeded doctor by name.
func Doctor(t testing.TB, s *store.Store, name string) domain.Doctor {
	t.Helper()
	all, err := s.Doctors(context.Background())
	require.NoError(t, err)
	for _, d := range all {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("doctor %q not seeded", name)
	return domain.Doctor{}
}
