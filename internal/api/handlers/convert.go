package handlers

import (
	"time"

	"price-forecast/internal/advisor"
	"price-forecast/internal/analysis"
	"price-forecast/internal/api/models"
	"price-forecast/internal/backtest"
	"price-forecast/internal/data"
	"price-forecast/internal/model"
)

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}

func toStats(s data.PrepareStats, observations int) models.PrepareStats {
	return models.PrepareStats{
		InputRows:      s.InputRows,
		SkippedRows:    s.SkippedRows,
		DuplicateDates: s.DuplicateDates,
		Observations:   observations,
	}
}

func toSummary(s analysis.SeriesSummary) models.SeriesSummary {
	return models.SeriesSummary{
		Count:     s.Count,
		Start:     fmtDate(s.Start),
		End:       fmtDate(s.End),
		MinClose:  s.MinClose,
		MaxClose:  s.MaxClose,
		MeanClose: s.MeanClose,
		P05Close:  s.P05Close,
		P95Close:  s.P95Close,
		LastClose: s.LastClose,
	}
}

func toBand(b model.DeviationBand) models.Band {
	var out models.Band
	if b.Positive.Valid {
		v := b.Positive.Value
		out.Positive = &v
	}
	if b.Negative.Valid {
		v := b.Negative.Value
		out.Negative = &v
	}
	return out
}

func toBacktest(provider string, res *backtest.Result, band model.DeviationBand) *models.BacktestResponse {
	if res == nil {
		return nil
	}
	rows := make([]models.BacktestRow, len(res.Rows))
	for i, r := range res.Rows {
		rows[i] = models.BacktestRow{
			Date:       fmtDate(r.Date),
			Actual:     r.Actual,
			Predicted:  r.Predicted,
			Difference: r.Difference,
		}
	}
	return &models.BacktestResponse{
		Provider:             provider,
		Rows:                 rows,
		AverageAbsoluteError: res.AverageAbsoluteError,
		MeanError:            res.MeanError,
		ErrorTolerance:       res.ErrorTolerance,
		Verdict:              string(res.Verdict),
		Message:              res.Verdict.Message(),
		Band:                 toBand(band),
	}
}

func toForecastPoints(pts []model.ForecastPoint) []models.ForecastPoint {
	out := make([]models.ForecastPoint, len(pts))
	for i, p := range pts {
		out[i] = models.ForecastPoint{Date: fmtDate(p.Date), Estimate: p.Estimate, Lower: p.Lower, Upper: p.Upper}
	}
	return out
}

func toRecommendResponse(r *advisor.Report, includeForecast bool) models.RecommendResponse {
	resp := models.RecommendResponse{
		ID:          r.ID,
		GeneratedAt: r.GeneratedAt,
		Today:       fmtDate(r.Today),
		Provider:    r.Provider,
		Summary:     toSummary(r.Summary),
		Backtest:    toBacktest(r.Provider, r.Backtest, r.Band),
		Band:        toBand(r.Band),
		Position: models.Position{
			CostBasis:    r.Position.CostBasis,
			Quantity:     r.Position.Quantity,
			PurchaseDate: fmtDate(r.Position.PurchaseDate),
		},
		Thresholds:      r.Thresholds,
		Recommendations: make([]models.Recommendation, len(r.Recommendations)),
		Disclaimer:      r.Disclaimer,
	}
	for i, rec := range r.Recommendations {
		resp.Recommendations[i] = models.Recommendation{
			Threshold: rec.Threshold,
			Date:      fmtDate(rec.Date),
			Estimate:  rec.Estimate,
		}
	}
	if r.Target != nil {
		resp.Target = &models.TargetEvaluation{
			Date:           fmtDate(r.Target.Date),
			PredictedPrice: r.Target.PredictedPrice,
			ProfitOrLoss:   r.Target.ProfitOrLoss,
		}
	}
	if r.Demand != nil {
		resp.Demand = &models.DemandScan{
			MinPrice: r.Demand.MinPrice,
			Start:    fmtDate(r.Demand.Start),
			End:      fmtDate(r.Demand.End),
			Matches:  toForecastPoints(r.Demand.Matches),
		}
	}
	if includeForecast {
		resp.Forecast = toForecastPoints(model.FuturePoints(r.Forecast))
	}
	for _, is := range r.Issues {
		resp.Issues = append(resp.Issues, models.Issue{Operation: is.Operation, Code: is.Code, Message: is.Message})
	}
	return resp
}
