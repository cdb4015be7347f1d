package backtest

import (
	"time"

	"price-forecast/internal/model"
)

// Row is one joined day of the backtest: the actual close next to the
// model's retrodiction for the same date.
type Row struct {
	Date       time.Time
	Actual     float64
	Predicted  float64
	Difference float64 // Actual - Predicted
}

type Result struct {
	Rows []Row
	// AverageAbsoluteError is mean(|Difference|) over Rows.
	AverageAbsoluteError float64
	// MeanError is mean(Difference); positive means the model under-predicts.
	MeanError      float64
	ErrorTolerance float64
	Verdict        model.Verdict
}

// Differences returns the signed differences in row order.
func (r *Result) Differences() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Difference
	}
	return out
}
