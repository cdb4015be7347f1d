// Package forecast defines the forecasting boundary and ships one provider,
// an additive trend + seasonality regression.
package forecast

import (
	"context"
	"errors"

	"price-forecast/internal/model"
)

// DefaultHorizonDays is how far past the last observation forecasts reach.
const DefaultHorizonDays = 365

// ErrTooFewObservations is returned by Fit when the series cannot support a trend.
var ErrTooFewObservations = errors.New("forecast: need at least 2 observations")

// Provider fits a model to a prepared series. Fit may be slow; it honours
// ctx only before and after the numerical work.
type Provider interface {
	Name() string
	Fit(ctx context.Context, series model.PriceSeries) (Model, error)
}

// Model is a fitted forecast.
//
// With includeHistory, the result starts with one retrodicted point per
// series date (Historical=true) and continues with one point per calendar
// day for horizonDays days after the last observation. Without it, only the
// future days are returned. Repeated calls are not guaranteed to be identical.
type Model interface {
	Predict(horizonDays int, includeHistory bool) ([]model.ForecastPoint, error)
}
