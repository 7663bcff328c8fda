// Package records stores typed health records. Every record type carries one
// payload shape, validated before it is written.
package records

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"healthportal/m/domain"
)

type Store interface {
	InsertHealthRecord(ctx context.Context, r domain.HealthRecord) error
	HealthRecords(ctx context.Context, userID uuid.UUID) ([]domain.HealthRecord, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NewRecord is the input to Create. Payload may be nil.
type NewRecord struct {
	Type        domain.RecordType
	Title       string
	Description string
	FileURL     string
	Payload     domain.RecordPayload
}

func (s *Service) Create(ctx context.Context, sess domain.Session, in NewRecord) (domain.HealthRecord, error) {
	if err := sess.Check(); err != nil {
		return domain.HealthRecord{}, err
	}
	if !in.Type.Valid() {
		return domain.HealthRecord{}, domain.Invalid("record_type", "must be symptom_check, prescription, lab_result or consultation")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.HealthRecord{}, domain.Invalid("title", "is required")
	}

	data := domain.JSONDoc("{}")
	if in.Payload != nil {
		if in.Payload.RecordType() != in.Type {
			return domain.HealthRecord{}, domain.Invalid("data", "payload does not match record type "+string(in.Type))
		}
		if err := domain.ValidateStruct("data.", in.Payload); err != nil {
			return domain.HealthRecord{}, err
		}
		raw, err := json.Marshal(in.Payload)
		if err != nil {
			return domain.HealthRecord{}, domain.Invalid("data", err.Error())
		}
		data = raw
	}

	rec := domain.HealthRecord{
		ID:          uuid.New(),
		UserID:      sess.UserID,
		Type:        in.Type,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		FileURL:     strings.TrimSpace(in.FileURL),
		Data:        data,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.InsertHealthRecord(ctx, rec); err != nil {
		return domain.HealthRecord{}, err
	}
	return rec, nil
}

// List returns the user's records, newest first.
func (s *Service) List(ctx context.Context, sess domain.Session) ([]domain.HealthRecord, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}
	return s.store.HealthRecords(ctx, sess.UserID)
}
