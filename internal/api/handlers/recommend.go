package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"price-forecast/internal/advisor"
	"price-forecast/internal/api/models"
	"price-forecast/internal/model"
)

// Recommend handles POST /api/v1/recommend
func (h *AnalysisHandler) Recommend(c *gin.Context) {
	var form models.RecommendForm
	if err := c.ShouldBind(&form); err != nil {
		h.respondError(c, invalidRequest("%v", err))
		return
	}

	req, err := buildRequest(form)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	series, _, _, err := h.loadSeries(ctx, c, form.SourceForm)
	if err != nil {
		h.respondError(c, err)
		return
	}

	report, err := h.advisor.Analyze(ctx, series, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecommendResponse(report, form.IncludeForecast))
}

func buildRequest(form models.RecommendForm) (advisor.Request, error) {
	purchase, err := parseDate("purchase_date", form.PurchaseDate)
	if err != nil {
		return advisor.Request{}, err
	}
	target, err := parseOptionalDate("target_date", form.TargetDate)
	if err != nil {
		return advisor.Request{}, err
	}
	today, err := parseOptionalDate("today", form.Today)
	if err != nil {
		return advisor.Request{}, err
	}
	thresholds, err := parseThresholds(form.Thresholds)
	if err != nil {
		return advisor.Request{}, err
	}

	req := advisor.Request{
		Position: model.Position{
			CostBasis:    *form.CostBasis,
			Quantity:     form.Quantity,
			PurchaseDate: purchase,
		},
		TargetDate: target,
		MinPrice:   form.MinPrice,
		Thresholds: thresholds,
	}
	if today != nil {
		req.Today = *today
	}
	return req, nil
}
