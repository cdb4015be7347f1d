package analysis

import (
	"gonum.org/v1/gonum/stat"

	"price-forecast/internal/backtest"
	"price-forecast/internal/model"
)

// BuildBand averages the positive and the negative backtest differences
// separately. A sign with no rows yields an absent (not zero) offset.
func BuildBand(rows []backtest.Row) model.DeviationBand {
	var pos, neg []float64
	for _, r := range rows {
		switch {
		case r.Difference > 0:
			pos = append(pos, r.Difference)
		case r.Difference < 0:
			neg = append(neg, r.Difference)
		}
	}
	var band model.DeviationBand
	if len(pos) > 0 {
		band.Positive = model.SomeDeviation(stat.Mean(pos, nil))
	}
	if len(neg) > 0 {
		band.Negative = model.SomeDeviation(stat.Mean(neg, nil))
	}
	return band
}
