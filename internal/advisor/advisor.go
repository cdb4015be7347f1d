// Package advisor runs the forecast-and-recommend pipeline: fit once, then
// reuse the same forecast for the backtest, the deviation band and every scan.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"price-forecast/internal/analysis"
	"price-forecast/internal/backtest"
	"price-forecast/internal/forecast"
	"price-forecast/internal/metrics"
	"price-forecast/internal/model"
)

var (
	// ErrInvalidRequest wraps caller input problems (bad position, dates).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrForecast wraps failures of the forecast provider.
	ErrForecast = errors.New("forecast failed")
)

type Options struct {
	HorizonDays      int
	Backtest         backtest.Options
	LadderStep       float64
	LadderCount      int
	DemandWindowDays int
}

func DefaultOptions() Options {
	return Options{
		HorizonDays:      forecast.DefaultHorizonDays,
		Backtest:         backtest.DefaultOptions(),
		LadderStep:       10,
		LadderCount:      20,
		DemandWindowDays: 365,
	}
}

// Advisor is stateless apart from its configuration and is safe for
// concurrent use if the provider is.
type Advisor struct {
	provider forecast.Provider
	opts     Options
	log      zerolog.Logger
	now      func() time.Time
}

func New(provider forecast.Provider, opts Options, log zerolog.Logger) *Advisor {
	return &Advisor{
		provider: provider,
		opts:     opts,
		log:      log.With().Str("component", "advisor").Logger(),
		now:      time.Now,
	}
}

func (a *Advisor) Options() Options { return a.opts }

func (a *Advisor) ProviderName() string { return a.provider.Name() }

// Fit is one fitted forecast plus its backtest. Everything downstream reads
// from it; nothing refits.
type Fit struct {
	Series   model.PriceSeries
	Forecast []model.ForecastPoint
	Backtest *backtest.Result
	// BacktestErr is model.ErrInsufficientData when the retrodiction does not
	// overlap the recent closes. The band is then empty.
	BacktestErr error
	Band        model.DeviationBand

	opts Options
}

// Fit fits the provider once and runs the backtest against it.
func (a *Advisor) Fit(ctx context.Context, series model.PriceSeries) (*Fit, error) {
	if series.Len() == 0 {
		return nil, model.ErrEmptyInput
	}
	metrics.ObserveSeries(series.Len())

	start := time.Now()
	fc, err := a.fitAndPredict(ctx, series)
	metrics.ObserveFit(a.provider.Name(), time.Since(start), err)
	if err != nil {
		a.log.Warn().Err(err).Int("observations", series.Len()).Msg("forecast failed")
		return nil, err
	}
	a.log.Info().
		Str("provider", a.provider.Name()).
		Int("observations", series.Len()).
		Int("points", len(fc)).
		Dur("duration", time.Since(start)).
		Msg("forecast fitted")

	f := &Fit{Series: series, Forecast: fc, opts: a.opts}
	res, err := backtest.Evaluate(series, fc, a.opts.Backtest)
	switch {
	case errors.Is(err, model.ErrInsufficientData):
		f.BacktestErr = err
	case err != nil:
		return nil, fmt.Errorf("backtest: %w", err)
	default:
		f.Backtest = res
		f.Band = analysis.BuildBand(res.Rows)
	}
	return f, nil
}

func (a *Advisor) fitAndPredict(ctx context.Context, series model.PriceSeries) ([]model.ForecastPoint, error) {
	m, err := a.provider.Fit(ctx, series)
	if err != nil {
		return nil, fmt.Errorf("%w: fit %s: %w", ErrForecast, a.provider.Name(), err)
	}
	fc, err := m.Predict(a.opts.HorizonDays, true)
	if err != nil {
		return nil, fmt.Errorf("%w: predict: %w", ErrForecast, err)
	}
	return fc, nil
}

// Future returns the projected (non-retrodicted) points.
func (f *Fit) Future() []model.ForecastPoint {
	return model.FuturePoints(f.Forecast)
}

// Recommend scans thresholds against the band-widened forecast, keeping only
// dates after both today and the purchase date. A nil thresholds slice uses
// the configured ladder above the cost basis.
func (f *Fit) Recommend(pos model.Position, today time.Time, thresholds []float64) ([]model.ThresholdRecommendation, []float64) {
	if thresholds == nil {
		thresholds = analysis.ThresholdLadder(pos.CostBasis, f.opts.LadderStep, f.opts.LadderCount)
	}
	refs := []time.Time{model.DateOf(today), model.DateOf(pos.PurchaseDate)}
	return analysis.ScanThresholds(f.Forecast, f.Band, refs, thresholds), thresholds
}

func (f *Fit) EvaluateTarget(date time.Time, pos model.Position) (model.TargetEvaluation, error) {
	return analysis.EvaluateTargetDate(f.Forecast, date, pos)
}

// ScanDemand lists dates in (today, today+window] forecast at or above minPrice.
func (f *Fit) ScanDemand(minPrice float64, today time.Time) *model.DemandScan {
	t := model.DateOf(today)
	w := analysis.Window{Start: t, End: t.AddDate(0, 0, f.opts.DemandWindowDays)}
	if f.opts.DemandWindowDays == 365 {
		w = analysis.OneYearWindow(t)
	}
	return &model.DemandScan{
		MinPrice: minPrice,
		Start:    w.Start,
		End:      w.End,
		Matches:  analysis.ScanDemandPrice(f.Forecast, minPrice, w),
	}
}
