package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"price-forecast/internal/advisor"
	"price-forecast/internal/config"
	"price-forecast/internal/data"
	"price-forecast/internal/forecast"
	"price-forecast/internal/logger"
	"price-forecast/internal/model"
)

var (
	dataPath    string
	symbol      string
	chartRange  string
	cfgPath     string
	dateColumn  string
	closeColumn string
	outPath     string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "pricecast",
	Short: "Forecast daily closes and recommend sale dates",
	Long: `pricecast fits a trend + seasonality model to a daily closing-price history,
backtests it against the most recent closes, and scans the forecast for the
first dates a position clears each price threshold.

The history comes from a CSV with Date and Close columns (--data) or from a
Yahoo-compatible chart endpoint (--symbol).`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataPath, "data", "", "Path to a CSV with Date and Close columns")
	pf.StringVar(&symbol, "symbol", "", "Ticker to fetch instead of --data")
	pf.StringVar(&chartRange, "range", "", "Chart range for --symbol (default from config, e.g. 5y)")
	pf.StringVar(&cfgPath, "config", "", "Path to YAML config")
	pf.StringVar(&dateColumn, "date-column", "", "Override the date column name")
	pf.StringVar(&closeColumn, "close-column", "", "Override the close column name")
	pf.StringVar(&outPath, "out", "", "Optional CSV output path")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(prepareCmd, backtestCmd, recommendCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code := model.ErrorCode(err); code != "" {
			fmt.Fprintf(os.Stderr, "Code: %s\n", code)
		}
		os.Exit(1)
	}
}

// env is what every subcommand needs: config, logger, and the loaded series.
type env struct {
	cfg    *config.Config
	log    zerolog.Logger
	series model.PriceSeries
	stats  data.PrepareStats
	source string
}

func setup(ctx context.Context) (*env, error) {
	lc := logger.FromEnv()
	if verbose {
		lc.Level = "debug"
	}
	if lc.Level == "" {
		lc.Level = "warn"
	}
	log := logger.New(lc)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	table, source, err := loadTable(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	mapping := cfg.ColumnMapping()
	if dateColumn != "" {
		mapping.Date = dateColumn
	}
	if closeColumn != "" {
		mapping.Close = closeColumn
	}
	series, stats, err := data.Prepare(table, mapping)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, series: series, stats: stats, source: source}, nil
}

func loadTable(ctx context.Context, cfg *config.Config, log zerolog.Logger) (data.Table, string, error) {
	switch {
	case dataPath != "" && symbol != "":
		return data.Table{}, "", fmt.Errorf("use either --data or --symbol, not both")
	case dataPath != "":
		t, err := data.LoadCSV(dataPath)
		return t, dataPath, err
	case symbol != "":
		rng := chartRange
		if rng == "" {
			rng = cfg.Source.Range
		}
		client := data.NewChartClient(cfg.Source.BaseURL, cfg.Source.Timeout, nil, log)
		t, err := client.FetchDaily(ctx, symbol, rng)
		return t, strings.ToUpper(symbol), err
	default:
		return data.Table{}, "", fmt.Errorf("one of --data or --symbol is required")
	}
}

func (e *env) advisor() (*advisor.Advisor, error) {
	provider, err := forecast.NewAdditive(e.cfg.AdditiveParams(), e.log)
	if err != nil {
		return nil, err
	}
	return advisor.New(provider, e.cfg.AdvisorOptions(), e.log), nil
}

func parseDateFlag(name, v string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD, got %q", name, v)
	}
	return t, nil
}
