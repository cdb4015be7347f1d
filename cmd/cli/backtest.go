package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"price-forecast/internal/backtest"
	"price-forecast/internal/model"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Compare the model's retrodictions with the most recent closes",
	Long: `Fit the forecast model, retrodict the last backtest.window closes and report
the average absolute error against backtest.error_tolerance.

Example:
  pricecast backtest --data prices.csv --out results/backtest.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		adv, err := e.advisor()
		if err != nil {
			return err
		}
		fit, err := adv.Fit(cmd.Context(), e.series)
		if err != nil {
			return err
		}
		if fit.BacktestErr != nil {
			return fit.BacktestErr
		}
		res := fit.Backtest

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "date\tactual\tpredicted\tdifference\t")
		for _, r := range res.Rows {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%+.2f\t\n", r.Date.Format(model.DateLayout), r.Actual, r.Predicted, r.Difference)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\nAverage absolute error: %.4f (tolerance %.2f)\n", res.AverageAbsoluteError, res.ErrorTolerance)
		fmt.Printf("Mean error: %+.4f\n", res.MeanError)
		fmt.Printf("Band: +%s / %s\n", fmtDeviation(fit.Band.Positive), fmtDeviation(fit.Band.Negative))
		fmt.Printf("%s: %s\n", res.Verdict, res.Verdict.Message())

		if outPath != "" {
			if err := backtest.WriteFile(outPath, func(f io.Writer) error {
				return backtest.WriteRowsCSV(f, res.Rows)
			}); err != nil {
				return err
			}
			fmt.Printf("Wrote %d rows to %s\n", len(res.Rows), outPath)
		}
		return nil
	},
}

func fmtDeviation(d model.Deviation) string {
	if !d.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", d.Value)
}
