package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"price-forecast/internal/analysis"
	"price-forecast/internal/backtest"
	"price-forecast/internal/model"
)

// Request carries the caller's inputs for one full analysis.
type Request struct {
	Position model.Position
	// Today defaults to the advisor clock.
	Today      time.Time
	TargetDate *time.Time
	MinPrice   *float64
	// Thresholds overrides the configured ladder when non-nil.
	Thresholds []float64
}

// Issue is a per-operation failure that did not abort the report.
type Issue struct {
	Operation string
	Code      string
	Message   string
}

type Report struct {
	ID          string
	GeneratedAt time.Time
	Today       time.Time
	Provider    string

	Summary  analysis.SeriesSummary
	Forecast []model.ForecastPoint

	Backtest *backtest.Result
	Band     model.DeviationBand

	Position        model.Position
	Thresholds      []float64
	Recommendations []model.ThresholdRecommendation

	Target *model.TargetEvaluation
	Demand *model.DemandScan

	Issues     []Issue
	Disclaimer string
}

// VerdictMessage is the sentence shown with the backtest, or "" without one.
func (r *Report) VerdictMessage() string {
	if r.Backtest == nil {
		return ""
	}
	return r.Backtest.Verdict.Message()
}

func (a *Advisor) validate(req *Request) error {
	if req.Today.IsZero() {
		req.Today = a.now()
	}
	req.Today = model.DateOf(req.Today)
	if err := req.Position.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if model.DateOf(req.Position.PurchaseDate).After(req.Today) {
		return fmt.Errorf("%w: purchase date cannot be in the future", ErrInvalidRequest)
	}
	if req.MinPrice != nil && *req.MinPrice < 0 {
		return fmt.Errorf("%w: min price must be >= 0", ErrInvalidRequest)
	}
	for i := 1; i < len(req.Thresholds); i++ {
		if req.Thresholds[i] < req.Thresholds[i-1] {
			return fmt.Errorf("%w: thresholds must be ascending", ErrInvalidRequest)
		}
	}
	return nil
}

// Analyze fits once and produces the full report. Failures of the optional
// operations (target date, backtest overlap) are recorded as Issues.
func (a *Advisor) Analyze(ctx context.Context, series model.PriceSeries, req Request) (*Report, error) {
	if err := a.validate(&req); err != nil {
		return nil, err
	}

	fit, err := a.Fit(ctx, series)
	if err != nil {
		return nil, err
	}

	r := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: a.now().UTC(),
		Today:       req.Today,
		Provider:    a.provider.Name(),
		Summary:     analysis.Summarize(series),
		Forecast:    fit.Forecast,
		Backtest:    fit.Backtest,
		Band:        fit.Band,
		Position:    req.Position,
		Disclaimer:  model.Disclaimer,
	}
	if fit.BacktestErr != nil {
		r.Issues = append(r.Issues, issueFrom("backtest", fit.BacktestErr))
	}

	r.Recommendations, r.Thresholds = fit.Recommend(req.Position, req.Today, req.Thresholds)

	if req.TargetDate != nil {
		ev, err := fit.EvaluateTarget(*req.TargetDate, req.Position)
		if err != nil {
			var nf *model.NoForecastForDateError
			if !errors.As(err, &nf) {
				return nil, err
			}
			r.Issues = append(r.Issues, issueFrom("target_date", err))
		} else {
			r.Target = &ev
		}
	}

	if req.MinPrice != nil {
		r.Demand = fit.ScanDemand(*req.MinPrice, req.Today)
	}

	a.log.Info().
		Str("report_id", r.ID).
		Int("recommendations", len(r.Recommendations)).
		Int("issues", len(r.Issues)).
		Msg("analysis complete")
	return r, nil
}

func issueFrom(op string, err error) Issue {
	return Issue{Operation: op, Code: model.ErrorCode(err), Message: err.Error()}
}
