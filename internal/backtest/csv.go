package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"price-forecast/internal/model"
)

// WriteSeriesCSV writes a prepared series as Date,Close.
func WriteSeriesCSV(w io.Writer, series model.PriceSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Close"}); err != nil {
		return err
	}
	for _, p := range series.Points() {
		if err := cw.Write([]string{fmtDate(p.Date), fmtFloat(p.Close)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteRowsCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	header := []string{"date", "actual", "predicted", "difference"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			fmtDate(r.Date),
			fmtFloat(r.Actual),
			fmtFloat(r.Predicted),
			fmtFloat(r.Difference),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteForecastCSV writes every forecast point, band edges included.
func WriteForecastCSV(w io.Writer, forecast []model.ForecastPoint, band model.DeviationBand) error {
	cw := csv.NewWriter(w)

	header := []string{"date", "historical", "estimate", "lower", "upper", "band_upper", "band_lower"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range forecast {
		bu, bl := band.Widen(p.Estimate)
		rec := []string{
			fmtDate(p.Date),
			strconv.FormatBool(p.Historical),
			fmtFloat(p.Estimate),
			fmtFloat(p.Lower),
			fmtFloat(p.Upper),
			fmtFloat(bu),
			fmtFloat(bl),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path (and its directory) and hands the file to write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
