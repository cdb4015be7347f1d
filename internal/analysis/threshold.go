package analysis

import (
	"time"

	"price-forecast/internal/model"
)

// ThresholdLadder returns count prices above cost, step apart:
// cost+step, cost+2*step, ... It is the caller's policy, not the scanner's.
func ThresholdLadder(cost, step float64, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = cost + step*float64(i+1)
	}
	return out
}

// AfterAll keeps the future points dated strictly after every reference date.
func AfterAll(forecast []model.ForecastPoint, refs ...time.Time) []model.ForecastPoint {
	out := make([]model.ForecastPoint, 0, len(forecast))
next:
	for _, p := range forecast {
		if p.Historical {
			continue
		}
		for _, r := range refs {
			if !p.Date.After(r) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

// ScanThresholds finds, for each threshold, the first retained point whose
// band-widened upper or lower edge is strictly above it. Points are retained
// when they are future points dated after every ref. The recorded estimate is
// the point's own, not the band edge. Thresholds never reached are omitted;
// the rest keep their input order.
func ScanThresholds(forecast []model.ForecastPoint, band model.DeviationBand, refs []time.Time, thresholds []float64) []model.ThresholdRecommendation {
	retained := AfterAll(forecast, refs...)

	out := make([]model.ThresholdRecommendation, 0, len(thresholds))
	for _, tau := range thresholds {
		for _, p := range retained {
			upper, lower := band.Widen(p.Estimate)
			if upper > tau || lower > tau {
				out = append(out, model.ThresholdRecommendation{Threshold: tau, Date: p.Date, Estimate: p.Estimate})
				break
			}
		}
	}
	return out
}
