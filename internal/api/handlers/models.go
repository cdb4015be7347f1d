package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"price-forecast/internal/advisor"
	"price-forecast/internal/api/models"
	"price-forecast/internal/forecast"
)

// ModelHandler describes the configured forecast model.
type ModelHandler struct {
	params forecast.AdditiveParams
	opts   advisor.Options
}

// NewModelHandler creates a new model handler
func NewModelHandler(params forecast.AdditiveParams, opts advisor.Options) *ModelHandler {
	return &ModelHandler{params: params, opts: opts}
}

// ListModels handles GET /api/v1/models
func (h *ModelHandler) ListModels(c *gin.Context) {
	info := []models.ModelInfo{
		{
			Name: "additive",
			Description: "Additive regression: linear trend plus weekly and yearly Fourier seasonality, " +
				"with a normal prediction interval from the residual spread.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "horizon_days",
					Type:        "int",
					Description: "Calendar days forecast past the last observation",
					Value:       h.opts.HorizonDays,
				},
				{
					Name:        "weekly_seasonality",
					Type:        "bool",
					Description: "Fit a day-of-week cycle (needs at least two weeks of data)",
					Value:       h.params.WeeklySeasonality,
				},
				{
					Name:        "yearly_seasonality",
					Type:        "bool",
					Description: "Fit a yearly cycle (needs at least two years of data)",
					Value:       h.params.YearlySeasonality,
				},
				{
					Name:        "interval_width",
					Type:        "float",
					Description: "Coverage of the lower/upper prediction interval",
					Value:       h.params.IntervalWidth,
				},
				{
					Name:        "backtest_window",
					Type:        "int",
					Description: "Most recent closes compared against their retrodictions",
					Value:       h.opts.Backtest.Window,
				},
				{
					Name:        "error_tolerance",
					Type:        "float",
					Description: "Average absolute error (price units) up to which the model is reported usable",
					Value:       h.opts.Backtest.ErrorTolerance,
				},
				{
					Name:        "ladder_step",
					Type:        "float",
					Description: "Spacing of the default threshold ladder above the cost basis",
					Value:       h.opts.LadderStep,
				},
				{
					Name:        "ladder_count",
					Type:        "int",
					Description: "Number of thresholds in the default ladder",
					Value:       h.opts.LadderCount,
				},
			},
		},
	}
	c.JSON(http.StatusOK, gin.H{"models": info})
}
