// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"github.com/bankrecon/backend/internal/domain/entity"
	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// resolution is the decision produced for one transaction by the match
// resolver. Write reports whether the decision carries a status change
// that must be persisted.
type resolution struct {
	Status     entity.MatchStatus
	Matched    *entity.MatchedRecord
	Suggestion *valueobject.MatchSuggestion
	Write      bool
}

// resolve applies the policy thresholds to a ranked candidate list.
//
// No candidates: the transaction stays unmatched and nothing is written.
// Top candidate at or above the auto-match threshold: the transaction is
// matched to it without human review. Otherwise the top candidates are
// retained as a suggestion and the transaction is marked suggested.
func resolve(config valueobject.MatchingConfig, tx *entity.BankTransaction, candidates []valueobject.MatchCandidate) resolution {
	if len(candidates) == 0 {
		return resolution{Status: entity.MatchStatusUnmatched}
	}

	top := candidates[0]
	if top.Confidence >= config.AutoMatchThreshold {
		ref := top.Ref()
		return resolution{
			Status:  entity.MatchStatusMatched,
			Matched: &ref,
			Write:   true,
		}
	}

	retained := candidates
	if len(retained) > config.MaxSuggestions {
		retained = retained[:config.MaxSuggestions]
	}

	return resolution{
		Status: entity.MatchStatusSuggested,
		Suggestion: &valueobject.MatchSuggestion{
			TransactionID: tx.ID,
			Candidates:    retained,
			Tier:          valueobject.TierForScore(config, top.Confidence),
		},
		Write: true,
	}
}
