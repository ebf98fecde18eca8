// Package valueobject contains domain value objects for the reconciliation engine.
package valueobject

import "github.com/shopspring/decimal"

// MatchingConfig contains the thresholds for transaction-to-record matching.
type MatchingConfig struct {
	// Amount proximity buckets
	AmountExactTolerance decimal.Decimal // 0.50 currency units -> full amount points
	AmountClosePercent   decimal.Decimal // 5 (%) -> medium amount points
	AmountFarPercent     decimal.Decimal // 15 (%) -> small amount points

	// Date proximity buckets, in whole days
	DateSameDays  int // 1
	DateCloseDays int // 3
	DateFarDays   int // 7

	// Heuristic points
	AmountExactPoints int // 50
	AmountClosePoints int // 30
	AmountFarPoints   int // 15
	DateSamePoints    int // 30
	DateClosePoints   int // 20
	DateFarPoints     int // 10
	TextStrongPoints  int // 20 (vendor or invoice number hit)
	TextWeakPoints    int // 10 (description prefix overlap)

	// Eligibility and decision thresholds
	EligibilityFloor    int // 30: below this a candidate is discarded
	AutoMatchThreshold  int // 70: at or above this the top candidate is auto-matched
	MediumTierThreshold int // 50: at or above this a suggestion is medium tier
	MaxSuggestions      int // 3: candidates retained per suggestion
}

// DefaultMatchingConfig returns the default matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		AmountExactTolerance: decimal.NewFromFloat(0.50),
		AmountClosePercent:   decimal.NewFromInt(5),
		AmountFarPercent:     decimal.NewFromInt(15),

		DateSameDays:  1,
		DateCloseDays: 3,
		DateFarDays:   7,

		AmountExactPoints: 50,
		AmountClosePoints: 30,
		AmountFarPoints:   15,
		DateSamePoints:    30,
		DateClosePoints:   20,
		DateFarPoints:     10,
		TextStrongPoints:  20,
		TextWeakPoints:    10,

		EligibilityFloor:    30,
		AutoMatchThreshold:  70,
		MediumTierThreshold: 50,
		MaxSuggestions:      3,
	}
}
