package analysis

import (
	"time"

	"price-forecast/internal/model"
)

// Window is a half-open date range (Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(d time.Time) bool {
	return d.After(w.Start) && !d.After(w.End)
}

// OneYearWindow is (today, today + 1 year].
func OneYearWindow(today time.Time) Window {
	t := model.DateOf(today)
	return Window{Start: t, End: t.AddDate(1, 0, 0)}
}

// ScanDemandPrice lists the future points in w whose estimate is at least
// minPrice, in date order. The result is never nil.
func ScanDemandPrice(forecast []model.ForecastPoint, minPrice float64, w Window) []model.ForecastPoint {
	out := make([]model.ForecastPoint, 0)
	for _, p := range forecast {
		if p.Historical || !w.Contains(p.Date) {
			continue
		}
		if p.Estimate >= minPrice {
			out = append(out, p)
		}
	}
	return out
}
