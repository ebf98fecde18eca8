// Package valueobject contains domain value objects for the reconciliation engine.
package valueobject

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankrecon/backend/internal/domain/entity"
)

// ConfidenceTier represents the confidence tier of a match suggestion.
type ConfidenceTier string

const (
	ConfidenceTierHigh   ConfidenceTier = "high"
	ConfidenceTierMedium ConfidenceTier = "medium"
	ConfidenceTierLow    ConfidenceTier = "low"
)

// MatchCandidate represents one scored pairing between a bank transaction
// and an accounting record. Candidates are ephemeral and never persisted.
type MatchCandidate struct {
	Type        entity.MatchedType
	RecordID    uuid.UUID
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Confidence  int    // 0-100
	Reason      string // Heuristics that fired, comma-joined
}

// Ref returns the tagged record reference for the candidate.
func (c MatchCandidate) Ref() entity.MatchedRecord {
	return entity.MatchedRecord{Type: c.Type, RecordID: c.RecordID}
}

// MatchSuggestion represents the ranked candidate list retained for one
// transaction that was not auto-matched.
type MatchSuggestion struct {
	TransactionID uuid.UUID
	Candidates    []MatchCandidate // At most MatchingConfig.MaxSuggestions
	Tier          ConfidenceTier   // Derived from the top candidate's score
}

// TierForScore maps a confidence score onto a suggestion tier.
func TierForScore(config MatchingConfig, score int) ConfidenceTier {
	switch {
	case score >= config.AutoMatchThreshold:
		return ConfidenceTierHigh
	case score >= config.MediumTierThreshold:
		return ConfidenceTierMedium
	default:
		return ConfidenceTierLow
	}
}
