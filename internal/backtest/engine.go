package backtest

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"price-forecast/internal/model"
)

const (
	DefaultWindow = 7
	// DefaultErrorTolerance is the average absolute error, in price units,
	// up to which a fit is reported as usable. It does not scale with price.
	DefaultErrorTolerance = 15.0
)

type Options struct {
	Window         int
	ErrorTolerance float64
}

func DefaultOptions() Options {
	return Options{Window: DefaultWindow, ErrorTolerance: DefaultErrorTolerance}
}

// Evaluate joins the last opts.Window closes with the forecast's retrodicted
// points for the same dates. Dates the forecast does not cover are dropped;
// if none remain the error is model.ErrInsufficientData.
func Evaluate(series model.PriceSeries, forecast []model.ForecastPoint, opts Options) (*Result, error) {
	if opts.Window <= 0 {
		return nil, fmt.Errorf("backtest window must be > 0, got %d", opts.Window)
	}
	if opts.ErrorTolerance < 0 {
		return nil, fmt.Errorf("error tolerance must be >= 0, got %v", opts.ErrorTolerance)
	}

	retro := make(map[time.Time]float64, len(forecast))
	for _, p := range forecast {
		if p.Historical {
			retro[p.Date] = p.Estimate
		}
	}

	recent := series.Tail(opts.Window)
	rows := make([]Row, 0, len(recent))
	for _, pp := range recent {
		pred, ok := retro[pp.Date]
		if !ok {
			continue
		}
		rows = append(rows, Row{
			Date:       pp.Date,
			Actual:     pp.Close,
			Predicted:  pred,
			Difference: pp.Close - pred,
		})
	}
	if len(rows) == 0 {
		return nil, model.ErrInsufficientData
	}

	diffs := make([]float64, len(rows))
	abs := make([]float64, len(rows))
	for i, r := range rows {
		diffs[i] = r.Difference
		abs[i] = math.Abs(r.Difference)
	}
	mae := stat.Mean(abs, nil)

	return &Result{
		Rows:                 rows,
		AverageAbsoluteError: mae,
		MeanError:            stat.Mean(diffs, nil),
		ErrorTolerance:       opts.ErrorTolerance,
		Verdict:              model.VerdictFromError(mae, opts.ErrorTolerance),
	}, nil
}
