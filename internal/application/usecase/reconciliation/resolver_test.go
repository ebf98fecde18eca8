// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"testing"

	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/domain/entity"
	"github.com/bankrecon/backend/internal/domain/valueobject"
)

func candidate(kind entity.MatchedType, confidence int) valueobject.MatchCandidate {
	return valueobject.MatchCandidate{
		Type:       kind,
		RecordID:   uuid.New(),
		Confidence: confidence,
	}
}

func TestResolve(t *testing.T) {
	config := valueobject.DefaultMatchingConfig()
	tx := withdrawal("-100.00", date(2024, 3, 1), "PAYMENT")

	t.Run("no candidates stays unmatched without a write", func(t *testing.T) {
		res := resolve(config, tx, nil)
		if res.Status != entity.MatchStatusUnmatched {
			t.Errorf("expected unmatched, got %s", res.Status)
		}
		if res.Write {
			t.Error("expected no persistence write for unmatched")
		}
		if res.Suggestion != nil {
			t.Error("expected no suggestion for unmatched")
		}
	})

	t.Run("confidence exactly at threshold auto-matches", func(t *testing.T) {
		top := candidate(entity.MatchedTypeExpense, config.AutoMatchThreshold)
		res := resolve(config, tx, []valueobject.MatchCandidate{top})

		if res.Status != entity.MatchStatusMatched {
			t.Errorf("expected matched, got %s", res.Status)
		}
		if !res.Write {
			t.Error("expected persistence write for auto-match")
		}
		if res.Matched == nil || res.Matched.RecordID != top.RecordID {
			t.Error("expected matched record to reference the top candidate")
		}
		if res.Matched.Type != entity.MatchedTypeExpense {
			t.Errorf("expected expense match, got %s", res.Matched.Type)
		}
	})

	t.Run("confidence one below threshold only suggests", func(t *testing.T) {
		top := candidate(entity.MatchedTypeExpense, config.AutoMatchThreshold-1)
		res := resolve(config, tx, []valueobject.MatchCandidate{top})

		if res.Status != entity.MatchStatusSuggested {
			t.Errorf("expected suggested, got %s", res.Status)
		}
		if res.Matched != nil {
			t.Error("expected no matched record for a suggestion")
		}
		if res.Suggestion == nil {
			t.Fatal("expected a suggestion")
		}
		if res.Suggestion.Tier != valueobject.ConfidenceTierMedium {
			t.Errorf("expected medium tier for score 69, got %s", res.Suggestion.Tier)
		}
	})

	t.Run("suggestion retains at most the configured maximum", func(t *testing.T) {
		candidates := []valueobject.MatchCandidate{
			candidate(entity.MatchedTypeExpense, 60),
			candidate(entity.MatchedTypeExpense, 55),
			candidate(entity.MatchedTypeExpense, 50),
			candidate(entity.MatchedTypeExpense, 45),
			candidate(entity.MatchedTypeExpense, 40),
		}
		res := resolve(config, tx, candidates)

		if res.Suggestion == nil {
			t.Fatal("expected a suggestion")
		}
		if len(res.Suggestion.Candidates) != config.MaxSuggestions {
			t.Errorf("expected %d retained candidates, got %d", config.MaxSuggestions, len(res.Suggestion.Candidates))
		}
		if res.Suggestion.Candidates[0].RecordID != candidates[0].RecordID {
			t.Error("expected the top candidate retained first")
		}
	})

	t.Run("low tier below the medium threshold", func(t *testing.T) {
		res := resolve(config, tx, []valueobject.MatchCandidate{
			candidate(entity.MatchedTypeExpense, config.MediumTierThreshold-1),
		})
		if res.Suggestion == nil || res.Suggestion.Tier != valueobject.ConfidenceTierLow {
			t.Error("expected low tier below the medium threshold")
		}
	})
}

func TestTierForScore(t *testing.T) {
	config := valueobject.DefaultMatchingConfig()

	cases := []struct {
		score int
		want  valueobject.ConfidenceTier
	}{
		{100, valueobject.ConfidenceTierHigh},
		{70, valueobject.ConfidenceTierHigh},
		{69, valueobject.ConfidenceTierMedium},
		{50, valueobject.ConfidenceTierMedium},
		{49, valueobject.ConfidenceTierLow},
		{30, valueobject.ConfidenceTierLow},
	}
	for _, c := range cases {
		if got := valueobject.TierForScore(config, c.score); got != c.want {
			t.Errorf("score %d: expected tier %s, got %s", c.score, c.want, got)
		}
	}
}
