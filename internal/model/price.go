package model

import (
	"time"
)

// DateLayout is the canonical calendar-date format used in CSV and JSON output.
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar day at UTC midnight.
// Dates produced this way compare with == and are safe as map keys.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PricePoint is one observed daily close.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries is a non-empty, strictly ascending, de-duplicated run of closes.
// Construct it with NewPriceSeries; the zero value is an empty series.
type PriceSeries struct {
	points []PricePoint
}

// NewPriceSeries copies points into a series. The caller guarantees ordering;
// use data.Prepare for untrusted input.
func NewPriceSeries(points []PricePoint) PriceSeries {
	cp := make([]PricePoint, len(points))
	copy(cp, points)
	return PriceSeries{points: cp}
}

func (s PriceSeries) Len() int { return len(s.points) }

func (s PriceSeries) At(i int) PricePoint { return s.points[i] }

// Points returns a copy of the underlying points.
func (s PriceSeries) Points() []PricePoint {
	cp := make([]PricePoint, len(s.points))
	copy(cp, s.points)
	return cp
}

// Tail returns a copy of the last n points (all of them if n >= Len).
func (s PriceSeries) Tail(n int) []PricePoint {
	if n <= 0 {
		return []PricePoint{}
	}
	if n > len(s.points) {
		n = len(s.points)
	}
	cp := make([]PricePoint, n)
	copy(cp, s.points[len(s.points)-n:])
	return cp
}

func (s PriceSeries) First() PricePoint { return s.points[0] }

func (s PriceSeries) Last() PricePoint { return s.points[len(s.points)-1] }

// Closes returns the close prices in date order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Close
	}
	return out
}

// ForecastPoint is a model estimate for one calendar day.
// Historical marks a retrodicted point (a date covered by the series).
type ForecastPoint struct {
	Date       time.Time
	Estimate   float64
	Lower      float64
	Upper      float64
	Historical bool
}

// FuturePoints returns the non-historical points of a forecast, preserving order.
func FuturePoints(forecast []ForecastPoint) []ForecastPoint {
	out := make([]ForecastPoint, 0, len(forecast))
	for _, p := range forecast {
		if !p.Historical {
			out = append(out, p)
		}
	}
	return out
}
