package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"price-forecast/internal/model"
)

const (
	weeklyPeriodDays = 7.0
	yearlyPeriodDays = 365.25
	weeklyOrder      = 3
	yearlyOrder      = 10

	// Minimum span of history before a seasonal component is fitted.
	minWeeklySpanDays = 14
	minYearlySpanDays = 730
)

// AdditiveParams configures the additive model.
type AdditiveParams struct {
	WeeklySeasonality bool
	YearlySeasonality bool
	// IntervalWidth is the coverage of the Lower/Upper interval, in (0, 1).
	IntervalWidth float64
	// Ridge penalises seasonal coefficients; trend terms are unpenalised.
	Ridge float64
}

func DefaultAdditiveParams() AdditiveParams {
	return AdditiveParams{
		WeeklySeasonality: true,
		YearlySeasonality: true,
		IntervalWidth:     0.80,
		Ridge:             1.0,
	}
}

func (p AdditiveParams) Validate() error {
	if p.IntervalWidth <= 0 || p.IntervalWidth >= 1 {
		return errors.New("interval width must be in (0, 1)")
	}
	if p.Ridge < 0 {
		return errors.New("ridge must be >= 0")
	}
	return nil
}

// Additive models a close as
//
//	y(t) = a + b*s(t) + weekly(t) + yearly(t)
//
// where s is time scaled to [0,1] over the history and the seasonal terms
// are truncated Fourier series. Closes are scaled by their max magnitude
// before the least-squares solve.
type Additive struct {
	Params AdditiveParams
	log    zerolog.Logger
}

func NewAdditive(params AdditiveParams, log zerolog.Logger) (*Additive, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Additive{
		Params: params,
		log:    log.With().Str("component", "forecast_additive").Logger(),
	}, nil
}

func (a *Additive) Name() string { return "additive" }

func (a *Additive) Fit(ctx context.Context, series model.PriceSeries) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := series.Len()
	if n < 2 {
		return nil, ErrTooFewObservations
	}

	m := &additiveModel{
		origin:  series.First().Date,
		spanDay: daysBetween(series.First().Date, series.Last().Date),
		history: make([]time.Time, n),
	}
	m.weekly = a.Params.WeeklySeasonality && m.spanDay >= minWeeklySpanDays
	m.yearly = a.Params.YearlySeasonality && m.spanDay >= minYearlySpanDays

	closes := series.Closes()
	m.yScale = 0
	for _, c := range closes {
		m.yScale = math.Max(m.yScale, math.Abs(c))
	}
	if m.yScale == 0 {
		m.yScale = 1
	}

	p := m.numFeatures()
	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		d := series.At(i).Date
		m.history[i] = d
		x.SetRow(i, m.features(d))
		y.SetVec(i, closes[i]/m.yScale)
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 2; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+a.Params.Ridge)
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("forecast: solve: %w", err)
		}
		a.log.Warn().Float64("condition", float64(cond)).Msg("ill-conditioned design matrix")
	}
	m.beta = beta.RawVector().Data

	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		residuals[i] = closes[i] - m.estimate(m.history[i])
	}
	m.sigma = stat.StdDev(residuals, nil)
	if math.IsNaN(m.sigma) {
		m.sigma = 0
	}
	m.z = distuv.UnitNormal.Quantile(0.5 + a.Params.IntervalWidth/2)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.log.Debug().
		Int("observations", n).
		Int("span_days", m.spanDay).
		Bool("weekly", m.weekly).
		Bool("yearly", m.yearly).
		Float64("residual_sd", m.sigma).
		Msg("model fitted")
	return m, nil
}

type additiveModel struct {
	origin  time.Time
	spanDay int
	yScale  float64
	weekly  bool
	yearly  bool
	beta    []float64
	sigma   float64
	z       float64
	history []time.Time
}

func (m *additiveModel) numFeatures() int {
	p := 2
	if m.weekly {
		p += 2 * weeklyOrder
	}
	if m.yearly {
		p += 2 * yearlyOrder
	}
	return p
}

func (m *additiveModel) features(d time.Time) []float64 {
	out := make([]float64, 0, m.numFeatures())
	out = append(out, 1, float64(daysBetween(m.origin, d))/float64(m.spanDay))

	// Seasonal phases use absolute day numbers so they line up with the calendar.
	abs := float64(d.Unix()) / 86400
	if m.weekly {
		out = appendFourier(out, abs, weeklyPeriodDays, weeklyOrder)
	}
	if m.yearly {
		out = appendFourier(out, abs, yearlyPeriodDays, yearlyOrder)
	}
	return out
}

func (m *additiveModel) estimate(d time.Time) float64 {
	f := m.features(d)
	v := 0.0
	for i, b := range m.beta {
		v += b * f[i]
	}
	return v * m.yScale
}

func (m *additiveModel) point(d time.Time, historical bool) model.ForecastPoint {
	e := m.estimate(d)
	return model.ForecastPoint{
		Date:       d,
		Estimate:   e,
		Lower:      e - m.z*m.sigma,
		Upper:      e + m.z*m.sigma,
		Historical: historical,
	}
}

func (m *additiveModel) Predict(horizonDays int, includeHistory bool) ([]model.ForecastPoint, error) {
	if horizonDays < 0 {
		return nil, fmt.Errorf("forecast: horizon must be >= 0, got %d", horizonDays)
	}
	capacity := horizonDays
	if includeHistory {
		capacity += len(m.history)
	}
	out := make([]model.ForecastPoint, 0, capacity)
	if includeHistory {
		for _, d := range m.history {
			out = append(out, m.point(d, true))
		}
	}
	last := m.history[len(m.history)-1]
	for i := 1; i <= horizonDays; i++ {
		out = append(out, m.point(last.AddDate(0, 0, i), false))
	}
	return out, nil
}

func appendFourier(dst []float64, t, period float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		arg := 2 * math.Pi * float64(k) * t / period
		dst = append(dst, math.Sin(arg), math.Cos(arg))
	}
	return dst
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
