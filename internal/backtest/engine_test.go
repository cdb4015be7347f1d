package backtest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-forecast/internal/model"
)

var start = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func seriesOf(closes ...float64) model.PriceSeries {
	pts := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return model.NewPriceSeries(pts)
}

func retrodiction(estimates ...float64) []model.ForecastPoint {
	fc := make([]model.ForecastPoint, len(estimates))
	for i, e := range estimates {
		fc[i] = model.ForecastPoint{Date: start.AddDate(0, 0, i), Estimate: e, Historical: true}
	}
	return fc
}

func TestEvaluate_UsableFit(t *testing.T) {
	series := seriesOf(100, 102, 101, 103, 105, 104, 106)
	fc := retrodiction(99, 103, 100, 104, 104, 105, 107)

	res, err := Evaluate(series, fc, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Rows, 7)
	want := []float64{1, -1, 1, -1, 1, -1, -1}
	for i, d := range res.Differences() {
		assert.InDelta(t, want[i], d, 1e-9)
	}
	assert.InDelta(t, 1.0, res.AverageAbsoluteError, 1e-9)
	assert.InDelta(t, -1.0/7, res.MeanError, 1e-9)
	assert.Equal(t, model.VerdictUsable, res.Verdict)
}

func TestEvaluate_JoinKeepsOnlySharedDates(t *testing.T) {
	series := seriesOf(10, 11, 12, 13, 14, 15, 16, 17, 18, 19)
	fc := retrodiction(10, 11, 12, 13, 14, 15, 16, 17, 18, 19)
	// drop two of the last seven dates and add a future point for a covered date
	fc = append(fc[:5], fc[6:]...)
	fc = append(fc[:7], fc[8:]...)
	fc = append(fc, model.ForecastPoint{Date: start.AddDate(0, 0, 20), Estimate: 1})

	res, err := Evaluate(series, fc, DefaultOptions())
	require.NoError(t, err)

	got := make([]time.Time, len(res.Rows))
	for i, r := range res.Rows {
		got[i] = r.Date
		assert.InDelta(t, r.Actual-r.Predicted, r.Difference, 1e-12)
	}
	assert.Equal(t, []time.Time{
		start.AddDate(0, 0, 3),
		start.AddDate(0, 0, 4),
		start.AddDate(0, 0, 6),
		start.AddDate(0, 0, 7),
		start.AddDate(0, 0, 9),
	}, got)
}

func TestEvaluate_IgnoresFuturePointsOnSameDate(t *testing.T) {
	series := seriesOf(10, 11)
	fc := []model.ForecastPoint{{Date: start, Estimate: 10}, {Date: start.AddDate(0, 0, 1), Estimate: 11}}

	_, err := Evaluate(series, fc, DefaultOptions())
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestEvaluate_ShortSeriesAndUnreliable(t *testing.T) {
	series := seriesOf(100, 150, 200)
	fc := retrodiction(80, 120, 240)

	res, err := Evaluate(series, fc, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.Rows, 3)
	assert.InDelta(t, 30, res.AverageAbsoluteError, 1e-9)
	assert.Equal(t, model.VerdictUnreliable, res.Verdict)

	res, err = Evaluate(series, fc, Options{Window: 7, ErrorTolerance: 30})
	require.NoError(t, err)
	assert.Equal(t, model.VerdictUsable, res.Verdict, "tolerance boundary is inclusive")
}

func TestEvaluate_InvalidOptions(t *testing.T) {
	_, err := Evaluate(seriesOf(1), retrodiction(1), Options{Window: 0})
	assert.Error(t, err)
	_, err = Evaluate(seriesOf(1), retrodiction(1), Options{Window: 7, ErrorTolerance: -1})
	assert.Error(t, err)
}

func TestWriteRowsCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []Row{{Date: start, Actual: 10, Predicted: 9.5, Difference: 0.5}}
	require.NoError(t, WriteRowsCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,actual,predicted,difference", lines[0])
	assert.Equal(t, "2024-06-01,10.000000,9.500000,0.500000", lines[1])
}

func TestWriteForecastCSV(t *testing.T) {
	var buf bytes.Buffer
	fc := []model.ForecastPoint{{Date: start, Estimate: 100, Lower: 95, Upper: 105}}
	band := model.DeviationBand{Positive: model.SomeDeviation(2)}
	require.NoError(t, WriteForecastCSV(&buf, fc, band))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2024-06-01,false,100.000000,95.000000,105.000000,102.000000,100.000000", lines[1])
}

func TestWriteSeriesCSV(t *testing.T) {
	series := model.NewPriceSeries([]model.PricePoint{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 10.5},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 11},
	})
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, series))
	assert.Equal(t, "Date,Close\n2024-01-02,10.500000\n2024-01-03,11.000000\n", buf.String())
}
