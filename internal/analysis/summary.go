package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"price-forecast/internal/model"
)

// SeriesSummary describes a prepared series at a glance.
type SeriesSummary struct {
	Count int
	Start time.Time
	End   time.Time

	MinClose  float64
	MaxClose  float64
	MeanClose float64
	P05Close  float64
	P95Close  float64
	LastClose float64
}

func Summarize(series model.PriceSeries) SeriesSummary {
	s := SeriesSummary{}
	if series.Len() == 0 {
		return s
	}
	s.Count = series.Len()
	s.Start = series.First().Date
	s.End = series.Last().Date
	s.LastClose = series.Last().Close

	vals := series.Closes()
	minv, maxv := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		minv = math.Min(minv, v)
		maxv = math.Max(maxv, v)
	}
	s.MinClose = minv
	s.MaxClose = maxv
	s.MeanClose = stat.Mean(vals, nil)

	sort.Float64s(vals)
	s.P05Close = percentileSorted(vals, 0.05)
	s.P95Close = percentileSorted(vals, 0.95)
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
