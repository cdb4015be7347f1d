package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Date", c.Schema.DateColumn)
	assert.Equal(t, "Close", c.Schema.CloseColumn)
	assert.Equal(t, 365, c.Forecast.HorizonDays)
	assert.True(t, *c.Forecast.WeeklySeasonality)
	assert.Equal(t, 7, c.Backtest.Window)
	assert.Equal(t, 15.0, c.Backtest.ErrorTolerance)
	assert.Equal(t, 10.0, c.Recommend.LadderStep)
	assert.Equal(t, 20, c.Recommend.LadderCount)
	assert.Equal(t, "8080", c.API.Port)
	assert.Equal(t, 30*time.Second, c.API.RequestTimeout)
	assert.False(t, c.IsProduction())
}

func TestLoad_YAMLValues(t *testing.T) {
	path := writeConfig(t, `
schema:
  date_column: Trade Date
  close_column: LTP
forecast:
  horizon_days: 90
  yearly_seasonality: false
backtest:
  window: 14
  error_tolerance: 2.5
api:
  request_timeout: 5s
  allowed_origins: ["https://example.org"]
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Trade Date", c.ColumnMapping().Date)
	assert.Equal(t, 90, c.Forecast.HorizonDays)
	assert.False(t, c.AdditiveParams().YearlySeasonality)
	assert.True(t, c.AdditiveParams().WeeklySeasonality)
	assert.Equal(t, 14, c.BacktestOptions().Window)
	assert.Equal(t, 2.5, c.BacktestOptions().ErrorTolerance)
	assert.Equal(t, 5*time.Second, c.API.RequestTimeout)
	assert.Equal(t, []string{"https://example.org"}, c.API.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRICECAST_HORIZON_DAYS", "30")
	t.Setenv("PRICECAST_ERROR_TOLERANCE", "4")
	t.Setenv("API_ENV", "production")

	c, err := Load(writeConfig(t, "forecast:\n  horizon_days: 90\n"))
	require.NoError(t, err)
	assert.Equal(t, 30, c.Forecast.HorizonDays)
	assert.Equal(t, 4.0, c.Backtest.ErrorTolerance)
	assert.True(t, c.IsProduction())

	t.Setenv("PRICECAST_BACKTEST_WINDOW", "seven")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	bad := *c
	bad.Forecast.IntervalWidth = 1
	assert.Error(t, bad.Validate())

	bad = *c
	bad.Backtest.Window = -1
	assert.Error(t, bad.Validate())

	bad = *c
	bad.Recommend.LadderStep = -10
	assert.Error(t, bad.Validate())

	_, err := Load(writeConfig(t, "forecast: [not, a, map]"))
	assert.Error(t, err)
}

func TestAdvisorOptions_FromDefaults(t *testing.T) {
	opts := Default().AdvisorOptions()
	assert.Equal(t, 365, opts.HorizonDays)
	assert.Equal(t, 7, opts.Backtest.Window)
	assert.InDelta(t, 15.0, opts.Backtest.ErrorTolerance, 1e-9)
	assert.InDelta(t, 10.0, opts.LadderStep, 1e-9)
	assert.Equal(t, 20, opts.LadderCount)
	assert.Equal(t, 365, opts.DemandWindowDays)
}
