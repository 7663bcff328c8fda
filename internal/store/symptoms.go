package store

import (
	"context"

	"github.com/google/uuid"

	"healthportal/m/domain"
	"healthportal/m/internal/cache"
)

const symptomCheckColumns = `id, user_id, symptoms, ai_diagnosis, severity_level, recommendations, created_at`

func (s *Store) InsertSymptomCheck(ctx context.Context, c domain.SymptomCheck) error {
	err := insert(ctx, s.db, "symptom_checks", Row{
		"id":              c.ID,
		"user_id":         c.UserID,
		"symptoms":        c.Symptoms,
		"ai_diagnosis":    c.Condition,
		"severity_level":  string(c.Severity),
		"recommendations": c.Recommendations,
		"created_at":      c.CreatedAt,
	})
	if err != nil {
		return wrap("insert symptom check", err)
	}
	s.cache.Invalidate(cache.SymptomChecks)
	return nil
}

func (s *Store) SymptomChecks(ctx context.Context, userID uuid.UUID) ([]domain.SymptomCheck, error) {
	return cache.Load(ctx, s.cache, cache.SymptomChecks, userID, func(ctx context.Context) ([]domain.SymptomCheck, error) {
		out := []domain.SymptomCheck{}
		if err := selectAll(ctx, s.db, &out, `SELECT `+symptomCheckColumns+` FROM symptom_checks`,
			Filter{"user_id": userID}, ` ORDER BY created_at DESC`); err != nil {
			return nil, wrap("list symptom checks", err)
		}
		return out, nil
	})
}

func (s *Store) RecentSymptomChecks(ctx context.Context, userID uuid.UUID, n int) ([]domain.SymptomCheck, error) {
	out := []domain.SymptomCheck{}
	if err := selectAll(ctx, s.db, &out, `SELECT `+symptomCheckColumns+` FROM symptom_checks`,
		Filter{"user_id": userID}, ` ORDER BY created_at DESC LIMIT `+itoa(n)); err != nil {
		return nil, wrap("list recent symptom checks", err)
	}
	return out, nil
}

func (s *Store) CountSymptomChecks(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := count(ctx, s.db, "symptom_checks", Filter{"user_id": userID})
	return n, wrap("count symptom checks", err)
}
