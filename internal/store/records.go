package store

import (
	"context"

	"github.com/google/uuid"

	"healthportal/m/domain"
	"healthportal/m/internal/cache"
)

const healthRecordColumns = `id, user_id, record_type, title, description, file_url, data, created_at`

func (s *Store) InsertHealthRecord(ctx context.Context, r domain.HealthRecord) error {
	err := insert(ctx, s.db, "health_records", Row{
		"id":          r.ID,
		"user_id":     r.UserID,
		"record_type": string(r.Type),
		"title":       r.Title,
		"description": r.Description,
		"file_url":    r.FileURL,
		"data":        r.Data,
		"created_at":  r.CreatedAt,
	})
	if err != nil {
		return wrap("insert health record", err)
	}
	s.cache.Invalidate(cache.HealthRecords)
	return nil
}

func (s *Store) HealthRecords(ctx context.Context, userID uuid.UUID) ([]domain.HealthRecord, error) {
	return cache.Load(ctx, s.cache, cache.HealthRecords, userID, func(ctx context.Context) ([]domain.HealthRecord, error) {
		out := []domain.HealthRecord{}
		if err := selectAll(ctx, s.db, &out, `SELECT `+healthRecordColumns+` FROM health_records`,
			Filter{"user_id": userID}, ` ORDER BY created_at DESC`); err != nil {
			return nil, wrap("list health records", err)
		}
		return out, nil
	})
}

func (s *Store) CountHealthRecords(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := count(ctx, s.db, "health_records", Filter{"user_id": userID})
	return n, wrap("count health records", err)
}
