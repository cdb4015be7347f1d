// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricecast_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricecast_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	fitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricecast_forecast_fit_duration_seconds",
			Help:    "Time spent fitting a forecast model and predicting the horizon",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"provider"},
	)

	fitFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricecast_forecast_fit_failures_total",
			Help: "Forecast fits that returned an error",
		},
		[]string{"provider"},
	)

	seriesLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricecast_series_length",
			Help:    "Number of observations in prepared series",
			Buckets: prometheus.ExponentialBuckets(8, 2, 10),
		},
	)
)

func ObserveRequest(route, method, status string, d time.Duration) {
	httpRequests.WithLabelValues(route, method, status).Inc()
	httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func ObserveFit(provider string, d time.Duration, err error) {
	fitDuration.WithLabelValues(provider).Observe(d.Seconds())
	if err != nil {
		fitFailures.WithLabelValues(provider).Inc()
	}
}

func ObserveSeries(n int) {
	seriesLength.Observe(float64(n))
}
