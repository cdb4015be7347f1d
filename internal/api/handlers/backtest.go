package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"price-forecast/internal/api/models"
)

// RunBacktest handles POST /api/v1/backtest
func (h *AnalysisHandler) RunBacktest(c *gin.Context) {
	var form models.SourceForm
	if err := c.ShouldBind(&form); err != nil {
		h.respondError(c, invalidRequest("%v", err))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	series, _, _, err := h.loadSeries(ctx, c, form)
	if err != nil {
		h.respondError(c, err)
		return
	}

	fit, err := h.advisor.Fit(ctx, series)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if fit.BacktestErr != nil {
		h.respondError(c, fit.BacktestErr)
		return
	}

	c.JSON(http.StatusOK, toBacktest(h.advisor.ProviderName(), fit.Backtest, fit.Band))
}
