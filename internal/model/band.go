package model

import (
	"encoding/json"
	"math"
)

// Deviation is an optional mean deviation. Valid is false when no backtest
// row had the matching sign; Value is meaningless in that case.
type Deviation struct {
	Value float64
	Valid bool
}

func SomeDeviation(v float64) Deviation { return Deviation{Value: v, Valid: true} }

// OrZero returns Value, or 0 when absent.
func (d Deviation) OrZero() float64 {
	if !d.Valid {
		return 0
	}
	return d.Value
}

func (d Deviation) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value)
}

func (d *Deviation) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Deviation{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*d = SomeDeviation(v)
	return nil
}

// DeviationBand holds the mean over-prediction (Negative) and
// under-prediction (Positive) seen in a backtest.
type DeviationBand struct {
	Positive Deviation `json:"positive"`
	Negative Deviation `json:"negative"`
}

// Widen returns the optimistic and pessimistic edges around estimate.
// Absent offsets count as zero here and nowhere else.
func (b DeviationBand) Widen(estimate float64) (upper, lower float64) {
	upper = estimate + b.Positive.OrZero()
	lower = estimate - math.Abs(b.Negative.OrZero())
	return upper, lower
}
