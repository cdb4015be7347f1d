package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"price-forecast/internal/analysis"
	"price-forecast/internal/api/models"
)

// DescribeSeries handles POST /api/v1/series
func (h *AnalysisHandler) DescribeSeries(c *gin.Context) {
	var form models.SourceForm
	if err := c.ShouldBind(&form); err != nil {
		h.respondError(c, invalidRequest("%v", err))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	series, stats, source, err := h.loadSeries(ctx, c, form)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SeriesResponse{
		Source:  source,
		Stats:   toStats(stats, series.Len()),
		Summary: toSummary(analysis.Summarize(series)),
	})
}
