package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"price-forecast/internal/model"
)

// EvaluateTargetDate reports the raw point forecast for date and the profit
// on the whole position if sold at that price. Only future points are
// considered; a miss is *model.NoForecastForDateError.
func EvaluateTargetDate(forecast []model.ForecastPoint, date time.Time, pos model.Position) (model.TargetEvaluation, error) {
	want := model.DateOf(date)
	for _, p := range forecast {
		if p.Historical || !p.Date.Equal(want) {
			continue
		}
		pl := decimal.NewFromFloat(p.Estimate).
			Sub(decimal.NewFromFloat(pos.CostBasis)).
			Mul(decimal.NewFromInt(int64(pos.Quantity))).
			Round(2)
		return model.TargetEvaluation{
			Date:           p.Date,
			PredictedPrice: p.Estimate,
			ProfitOrLoss:   pl.InexactFloat64(),
		}, nil
	}
	return model.TargetEvaluation{}, &model.NoForecastForDateError{Date: want}
}
