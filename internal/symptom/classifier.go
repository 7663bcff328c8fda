package symptom

import (
	"context"

	"healthportal/m/domain"
)

// Classifier maps a symptom set to a likely condition.
type Classifier interface {
	Classify(ctx context.Context, symptoms []string) (domain.Classification, error)
}

// RuleClassifier returns the same low-severity assessment for any non-empty
// symptom set. It stands in until a real diagnostic engine is plugged in.
type RuleClassifier struct{}

func (RuleClassifier) Classify(_ context.Context, symptoms []string) (domain.Classification, error) {
	if len(symptoms) == 0 {
		return domain.Classification{}, domain.Invalid("symptoms", "at least one symptom is required")
	}
	return domain.Classification{
		Condition: "Common Cold",
		Severity:  domain.SeverityLow,
		Recommendations: []string{
			"Get plenty of rest",
			"Stay hydrated",
			"Consider over-the-counter pain relievers",
			"Consult a doctor if symptoms worsen",
		},
		Confidence: 85,
	}, nil
}
