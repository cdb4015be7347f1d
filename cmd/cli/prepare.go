package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"price-forecast/internal/analysis"
	"price-forecast/internal/backtest"
	"price-forecast/internal/model"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Clean a price history and print its summary",
	Long: `Resolve the Date and Close columns, drop blank and unparseable rows,
collapse duplicate dates (last row wins) and sort ascending.

Example:
  pricecast prepare --data prices.csv --out results/clean.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "source\t%s\n", e.source)
		fmt.Fprintf(w, "input rows\t%d\n", e.stats.InputRows)
		fmt.Fprintf(w, "skipped rows\t%d\n", e.stats.SkippedRows)
		fmt.Fprintf(w, "duplicate dates\t%d\n", e.stats.DuplicateDates)
		printSummary(w, analysis.Summarize(e.series))
		if err := w.Flush(); err != nil {
			return err
		}

		if outPath != "" {
			if err := backtest.WriteFile(outPath, func(f io.Writer) error {
				return backtest.WriteSeriesCSV(f, e.series)
			}); err != nil {
				return err
			}
			fmt.Printf("Wrote %d rows to %s\n", e.series.Len(), outPath)
		}
		return nil
	},
}

func printSummary(w io.Writer, s analysis.SeriesSummary) {
	fmt.Fprintf(w, "observations\t%d\n", s.Count)
	fmt.Fprintf(w, "range\t%s .. %s\n", s.Start.Format(model.DateLayout), s.End.Format(model.DateLayout))
	fmt.Fprintf(w, "close min/mean/max\t%.2f / %.2f / %.2f\n", s.MinClose, s.MeanClose, s.MaxClose)
	fmt.Fprintf(w, "close p05/p95\t%.2f / %.2f\n", s.P05Close, s.P95Close)
	fmt.Fprintf(w, "last close\t%.2f\n", s.LastClose)
}
