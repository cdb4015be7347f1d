package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"price-forecast/internal/advisor"
	"price-forecast/internal/backtest"
	"price-forecast/internal/data"
	"price-forecast/internal/forecast"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Schema    SchemaConfig    `yaml:"schema"`
	Forecast  ForecastConfig  `yaml:"forecast"`
	Backtest  BacktestConfig  `yaml:"backtest"`
	Recommend RecommendConfig `yaml:"recommend"`
	API       APIConfig       `yaml:"api"`
	Source    SourceConfig    `yaml:"source"`
}

type SchemaConfig struct {
	DateColumn  string `yaml:"date_column"`
	CloseColumn string `yaml:"close_column"`
}

type ForecastConfig struct {
	HorizonDays int `yaml:"horizon_days"`
	// Pointers so an explicit false survives default filling.
	WeeklySeasonality *bool   `yaml:"weekly_seasonality"`
	YearlySeasonality *bool   `yaml:"yearly_seasonality"`
	IntervalWidth     float64 `yaml:"interval_width"`
	Ridge             float64 `yaml:"ridge"`
}

type BacktestConfig struct {
	Window         int     `yaml:"window"`
	ErrorTolerance float64 `yaml:"error_tolerance"`
}

type RecommendConfig struct {
	LadderStep       float64 `yaml:"ladder_step"`
	LadderCount      int     `yaml:"ladder_count"`
	DemandWindowDays int     `yaml:"demand_window_days"`
}

type APIConfig struct {
	Port           string        `yaml:"port"`
	Env            string        `yaml:"env"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxUploadMB    int64         `yaml:"max_upload_mb"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type SourceConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Range    string        `yaml:"range"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Load reads path (a missing file is fine), applies environment overrides
// and defaults, and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked is Load without validation.
func LoadUnchecked(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(raw) > 0 {
			if err := yaml.Unmarshal(raw, c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return c, nil
}

func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PRICECAST_HORIZON_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PRICECAST_HORIZON_DAYS: %w", err)
		}
		c.Forecast.HorizonDays = n
	}
	if v := os.Getenv("PRICECAST_BACKTEST_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PRICECAST_BACKTEST_WINDOW: %w", err)
		}
		c.Backtest.Window = n
	}
	if v := os.Getenv("PRICECAST_ERROR_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PRICECAST_ERROR_TOLERANCE: %w", err)
		}
		c.Backtest.ErrorTolerance = f
	}
	if v := os.Getenv("API_PORT"); v != "" {
		c.API.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.API.Env = v
	}
	if v := os.Getenv("CHART_BASE_URL"); v != "" {
		c.Source.BaseURL = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := data.DefaultColumnMapping()
	if c.Schema.DateColumn == "" {
		c.Schema.DateColumn = d.Date
	}
	if c.Schema.CloseColumn == "" {
		c.Schema.CloseColumn = d.Close
	}

	fp := forecast.DefaultAdditiveParams()
	if c.Forecast.HorizonDays == 0 {
		c.Forecast.HorizonDays = forecast.DefaultHorizonDays
	}
	if c.Forecast.WeeklySeasonality == nil {
		c.Forecast.WeeklySeasonality = &fp.WeeklySeasonality
	}
	if c.Forecast.YearlySeasonality == nil {
		c.Forecast.YearlySeasonality = &fp.YearlySeasonality
	}
	if c.Forecast.IntervalWidth == 0 {
		c.Forecast.IntervalWidth = fp.IntervalWidth
	}
	if c.Forecast.Ridge == 0 {
		c.Forecast.Ridge = fp.Ridge
	}

	if c.Backtest.Window == 0 {
		c.Backtest.Window = backtest.DefaultWindow
	}
	if c.Backtest.ErrorTolerance == 0 {
		c.Backtest.ErrorTolerance = backtest.DefaultErrorTolerance
	}

	if c.Recommend.LadderStep == 0 {
		c.Recommend.LadderStep = 10
	}
	if c.Recommend.LadderCount == 0 {
		c.Recommend.LadderCount = 20
	}
	if c.Recommend.DemandWindowDays == 0 {
		c.Recommend.DemandWindowDays = 365
	}

	if c.API.Port == "" {
		c.API.Port = "8080"
	}
	if c.API.Env == "" {
		c.API.Env = "development"
	}
	if c.API.RequestTimeout == 0 {
		c.API.RequestTimeout = 30 * time.Second
	}
	if c.API.MaxUploadMB == 0 {
		c.API.MaxUploadMB = 10
	}
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{"*"}
	}

	if c.Source.Range == "" {
		c.Source.Range = "5y"
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 30 * time.Second
	}
	if c.Source.CacheTTL == 0 {
		c.Source.CacheTTL = time.Hour
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Forecast.HorizonDays < 1 {
		return errors.New("forecast.horizon_days must be >= 1")
	}
	if err := c.AdditiveParams().Validate(); err != nil {
		return fmt.Errorf("forecast config invalid: %w", err)
	}
	if c.Backtest.Window < 1 {
		return errors.New("backtest.window must be >= 1")
	}
	if c.Backtest.ErrorTolerance < 0 {
		return errors.New("backtest.error_tolerance must be >= 0")
	}
	if c.Recommend.LadderStep <= 0 {
		return errors.New("recommend.ladder_step must be > 0")
	}
	if c.Recommend.LadderCount < 1 {
		return errors.New("recommend.ladder_count must be >= 1")
	}
	if c.Recommend.DemandWindowDays < 1 {
		return errors.New("recommend.demand_window_days must be >= 1")
	}
	if c.API.MaxUploadMB < 1 {
		return errors.New("api.max_upload_mb must be >= 1")
	}
	return nil
}

func (c *Config) ColumnMapping() data.ColumnMapping {
	return data.ColumnMapping{Date: c.Schema.DateColumn, Close: c.Schema.CloseColumn}
}

func (c *Config) AdditiveParams() forecast.AdditiveParams {
	return forecast.AdditiveParams{
		WeeklySeasonality: *c.Forecast.WeeklySeasonality,
		YearlySeasonality: *c.Forecast.YearlySeasonality,
		IntervalWidth:     c.Forecast.IntervalWidth,
		Ridge:             c.Forecast.Ridge,
	}
}

func (c *Config) BacktestOptions() backtest.Options {
	return backtest.Options{Window: c.Backtest.Window, ErrorTolerance: c.Backtest.ErrorTolerance}
}

func (c *Config) AdvisorOptions() advisor.Options {
	return advisor.Options{
		HorizonDays:      c.Forecast.HorizonDays,
		Backtest:         c.BacktestOptions(),
		LadderStep:       c.Recommend.LadderStep,
		LadderCount:      c.Recommend.LadderCount,
		DemandWindowDays: c.Recommend.DemandWindowDays,
	}
}

func (c *Config) IsProduction() bool { return c.API.Env == "production" }
