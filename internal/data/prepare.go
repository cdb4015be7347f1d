package data

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"price-forecast/internal/model"
)

// ColumnMapping names the table columns holding the date and the close.
type ColumnMapping struct {
	Date  string
	Close string
}

func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{Date: "Date", Close: "Close"}
}

// PrepareStats describes what Prepare did with the raw rows.
type PrepareStats struct {
	InputRows      int
	SkippedRows    int // blank date or unusable close
	DuplicateDates int // rows superseded by a later row for the same date
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// Prepare maps, parses, sorts and de-duplicates a raw table into a PriceSeries.
//
// A missing column or a non-empty unparseable date fails with *model.SchemaError.
// Rows with a blank date or a blank/non-numeric close are skipped. When a date
// repeats, the last row in input order wins. If nothing survives, the error is
// model.ErrEmptyInput.
func Prepare(t Table, mapping ColumnMapping) (model.PriceSeries, PrepareStats, error) {
	stats := PrepareStats{InputRows: len(t.Rows)}

	dateCol, err := resolveColumn(t.Header, mapping.Date)
	if err != nil {
		return model.PriceSeries{}, stats, err
	}
	closeCol, err := resolveColumn(t.Header, mapping.Close)
	if err != nil {
		return model.PriceSeries{}, stats, err
	}

	byDate := make(map[time.Time]float64, len(t.Rows))
	for i := range t.Rows {
		rawDate := strings.TrimSpace(t.Cell(i, dateCol))
		if rawDate == "" {
			stats.SkippedRows++
			continue
		}
		d, ok := parseDate(rawDate)
		if !ok {
			return model.PriceSeries{}, stats, &model.SchemaError{Column: mapping.Date, Row: i + 1, Value: rawDate}
		}
		c, ok := parseClose(t.Cell(i, closeCol))
		if !ok {
			stats.SkippedRows++
			continue
		}
		if _, seen := byDate[d]; seen {
			stats.DuplicateDates++
		}
		byDate[d] = c
	}

	if len(byDate) == 0 {
		return model.PriceSeries{}, stats, model.ErrEmptyInput
	}

	points := make([]model.PricePoint, 0, len(byDate))
	for d, c := range byDate {
		points = append(points, model.PricePoint{Date: d, Close: c})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return model.NewPriceSeries(points), stats, nil
}

func resolveColumn(header []string, name string) (int, error) {
	want := normalizeHeader(name)
	for i, h := range header {
		if normalizeHeader(h) == want {
			return i, nil
		}
	}
	return -1, &model.SchemaError{Column: name}
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOf(t), true
		}
	}
	return time.Time{}, false
}

func parseClose(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
