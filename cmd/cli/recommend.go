package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"price-forecast/internal/advisor"
	"price-forecast/internal/backtest"
	"price-forecast/internal/model"
)

var (
	costBasis    float64
	quantity     int
	purchaseDate string
	targetDate   string
	minPrice     float64
	today        string
	thresholds   string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend sale dates for a position",
	Long: `Fit once, backtest, widen the forecast by the backtest deviation band and
report the first future date each threshold is cleared. Optionally evaluate a
target sale date and list dates forecast at or above a desired price.

Example:
  pricecast recommend --data prices.csv --cost 120 --quantity 50 \
    --purchase-date 2024-03-01 --target-date 2025-01-15 --min-price 150`,
	RunE: runRecommend,
}

func init() {
	f := recommendCmd.Flags()
	f.Float64Var(&costBasis, "cost", 0, "Cost basis per share")
	f.IntVar(&quantity, "quantity", 1, "Number of shares")
	f.StringVar(&purchaseDate, "purchase-date", "", "Purchase date (YYYY-MM-DD)")
	f.StringVar(&targetDate, "target-date", "", "Optional sale date to evaluate (YYYY-MM-DD)")
	f.Float64Var(&minPrice, "min-price", 0, "Optional desired sale price to scan for")
	f.StringVar(&today, "today", "", "Reference date (YYYY-MM-DD, default: now)")
	f.StringVar(&thresholds, "thresholds", "", "Comma-separated thresholds (default: ladder above cost)")
	_ = recommendCmd.MarkFlagRequired("cost")
	_ = recommendCmd.MarkFlagRequired("purchase-date")
}

func buildRequest(cmd *cobra.Command) (advisor.Request, error) {
	pd, err := parseDateFlag("purchase-date", purchaseDate)
	if err != nil {
		return advisor.Request{}, err
	}
	req := advisor.Request{
		Position: model.Position{CostBasis: costBasis, Quantity: quantity, PurchaseDate: pd},
	}
	if today != "" {
		if req.Today, err = parseDateFlag("today", today); err != nil {
			return advisor.Request{}, err
		}
	}
	if targetDate != "" {
		td, err := parseDateFlag("target-date", targetDate)
		if err != nil {
			return advisor.Request{}, err
		}
		req.TargetDate = &td
	}
	if cmd.Flags().Changed("min-price") {
		mp := minPrice
		req.MinPrice = &mp
	}
	if thresholds != "" {
		for _, s := range strings.Split(thresholds, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return advisor.Request{}, fmt.Errorf("--thresholds: %q is not a number", s)
			}
			req.Thresholds = append(req.Thresholds, v)
		}
	}
	return req, nil
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	req, err := buildRequest(cmd)
	if err != nil {
		return err
	}
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	adv, err := e.advisor()
	if err != nil {
		return err
	}
	r, err := adv.Analyze(cmd.Context(), e.series, req)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "report\t%s\n", r.ID)
	fmt.Fprintf(w, "source\t%s\n", e.source)
	fmt.Fprintf(w, "today\t%s\n", r.Today.Format(model.DateLayout))
	if r.Backtest != nil {
		fmt.Fprintf(w, "avg abs error\t%.4f\n", r.Backtest.AverageAbsoluteError)
		fmt.Fprintf(w, "band\t+%s / %s\n", fmtDeviation(r.Band.Positive), fmtDeviation(r.Band.Negative))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if msg := r.VerdictMessage(); msg != "" {
		fmt.Printf("\n%s\n", msg)
	}

	fmt.Println("\nSell recommendations:")
	if len(r.Recommendations) == 0 {
		fmt.Println("  no threshold is reached within the forecast horizon")
	} else {
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "threshold\tdate\testimate\tprofit\t")
		for _, rec := range r.Recommendations {
			profit := (rec.Threshold - r.Position.CostBasis) * float64(r.Position.Quantity)
			fmt.Fprintf(w, "%.2f\t%s\t%.2f\t%.2f\t\n", rec.Threshold, rec.Date.Format(model.DateLayout), rec.Estimate, profit)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if r.Target != nil {
		verb := "profit"
		if r.Target.ProfitOrLoss < 0 {
			verb = "loss"
		}
		fmt.Printf("\nOn %s the predicted price is %.2f, a %s of %.2f.\n",
			r.Target.Date.Format(model.DateLayout), r.Target.PredictedPrice, verb, r.Target.ProfitOrLoss)
	}

	if r.Demand != nil {
		fmt.Printf("\nDates forecast at or above %.2f (%s .. %s]:\n",
			r.Demand.MinPrice, r.Demand.Start.Format(model.DateLayout), r.Demand.End.Format(model.DateLayout))
		if len(r.Demand.Matches) == 0 {
			fmt.Println("  none")
		}
		for _, m := range r.Demand.Matches {
			fmt.Printf("  %s  %.2f\n", m.Date.Format(model.DateLayout), m.Estimate)
		}
	}

	for _, is := range r.Issues {
		fmt.Fprintf(os.Stderr, "warning: %s: %s (%s)\n", is.Operation, is.Message, is.Code)
	}
	fmt.Printf("\n%s\n", r.Disclaimer)

	if outPath != "" {
		if err := backtest.WriteFile(outPath, func(f io.Writer) error {
			return backtest.WriteForecastCSV(f, r.Forecast, r.Band)
		}); err != nil {
			return err
		}
		fmt.Printf("Wrote %d forecast points to %s\n", len(r.Forecast), outPath)
	}
	return nil
}
