package model

import (
	"errors"
	"time"
)

// Position is the caller's holding: what was paid per share, how many shares,
// and when they were bought.
type Position struct {
	CostBasis    float64
	Quantity     int
	PurchaseDate time.Time
}

func (p Position) Validate() error {
	if p.CostBasis < 0 {
		return errors.New("cost basis must be >= 0")
	}
	if p.Quantity < 1 {
		return errors.New("quantity must be >= 1")
	}
	if p.PurchaseDate.IsZero() {
		return errors.New("purchase date is required")
	}
	return nil
}

// ThresholdRecommendation is the first future date whose banded forecast
// clears Threshold. Estimate is the point estimate on that date.
type ThresholdRecommendation struct {
	Threshold float64
	Date      time.Time
	Estimate  float64
}

// TargetEvaluation is the raw point forecast for one sale date and the
// resulting profit (negative for a loss) on the whole position.
type TargetEvaluation struct {
	Date           time.Time
	PredictedPrice float64
	ProfitOrLoss   float64
}

// DemandScan records a desired-price search. Matches is never nil once the
// scan has run; a nil *DemandScan means no scan was requested.
type DemandScan struct {
	MinPrice float64
	Start    time.Time // exclusive
	End      time.Time // inclusive
	Matches  []ForecastPoint
}
