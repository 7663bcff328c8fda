// Package symptom classifies reported symptoms and keeps the append-only
// history of symptom checks.
package symptom

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"healthportal/m/domain"
)

type Store interface {
	InsertSymptomCheck(ctx context.Context, c domain.SymptomCheck) error
	SymptomChecks(ctx context.Context, userID uuid.UUID) ([]domain.SymptomCheck, error)
}

type Analyzer struct {
	store      Store
	classifier Classifier
	now        func() time.Time
}

// New builds an Analyzer. A nil classifier falls back to RuleClassifier.
func New(store Store, classifier Classifier) *Analyzer {
	if classifier == nil {
		classifier = RuleClassifier{}
	}
	return &Analyzer{store: store, classifier: classifier, now: time.Now}
}

// Normalize trims each symptom, drops blanks and keeps the first occurrence
// of duplicates.
func Normalize(symptoms []string) []string {
	out := make([]string, 0, len(symptoms))
	seen := make(map[string]struct{}, len(symptoms))
	for _, s := range symptoms {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func (a *Analyzer) Classify(ctx context.Context, symptoms []string) (domain.Classification, error) {
	symptoms = Normalize(symptoms)
	if len(symptoms) == 0 {
		return domain.Classification{}, domain.Invalid("symptoms", "at least one symptom is required")
	}
	return a.classifier.Classify(ctx, symptoms)
}

// Record persists a classified check. Checks are never edited afterwards.
func (a *Analyzer) Record(ctx context.Context, sess domain.Session, symptoms []string, c domain.Classification) (domain.SymptomCheck, error) {
	if err := sess.Check(); err != nil {
		return domain.SymptomCheck{}, err
	}
	symptoms = Normalize(symptoms)
	if len(symptoms) == 0 {
		return domain.SymptomCheck{}, domain.Invalid("symptoms", "at least one symptom is required")
	}
	if strings.TrimSpace(c.Condition) == "" {
		return domain.SymptomCheck{}, domain.Invalid("condition", "is required")
	}
	if !c.Severity.Valid() {
		return domain.SymptomCheck{}, domain.Invalid("severity", "must be low, medium or high")
	}

	check := domain.SymptomCheck{
		ID:              uuid.New(),
		UserID:          sess.UserID,
		Symptoms:        domain.StringList(symptoms),
		Condition:       c.Condition,
		Severity:        c.Severity,
		Recommendations: strings.Join(c.Recommendations, "; "),
		CreatedAt:       a.now().UTC(),
	}
	if err := a.store.InsertSymptomCheck(ctx, check); err != nil {
		return domain.SymptomCheck{}, err
	}
	return check, nil
}

// Check classifies and records in one step.
func (a *Analyzer) Check(ctx context.Context, sess domain.Session, symptoms []string) (domain.SymptomCheck, domain.Classification, error) {
	if err := sess.Check(); err != nil {
		return domain.SymptomCheck{}, domain.Classification{}, err
	}
	c, err := a.Classify(ctx, symptoms)
	if err != nil {
		return domain.SymptomCheck{}, domain.Classification{}, err
	}
	check, err := a.Record(ctx, sess, symptoms, c)
	if err != nil {
		return domain.SymptomCheck{}, domain.Classification{}, err
	}
	return check, c, nil
}

// History lists the user's checks, newest first.
func (a *Analyzer) History(ctx context.Context, sess domain.Session) ([]domain.SymptomCheck, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}
	return a.store.SymptomChecks(ctx, sess.UserID)
}
