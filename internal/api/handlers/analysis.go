package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"price-forecast/internal/advisor"
	"price-forecast/internal/api/models"
	"price-forecast/internal/data"
	"price-forecast/internal/model"
)

// AnalysisHandler serves the series, backtest and recommend endpoints.
type AnalysisHandler struct {
	advisor     *advisor.Advisor
	chart       *data.ChartClient
	mapping     data.ColumnMapping
	sourceRange string
	timeout     time.Duration
	maxUpload   int64
	log         zerolog.Logger
}

// AnalysisConfig carries the handler's settings.
type AnalysisConfig struct {
	Mapping        data.ColumnMapping
	SourceRange    string
	RequestTimeout time.Duration
	MaxUploadBytes int64
}

// NewAnalysisHandler creates a new analysis handler. chart may be nil, in
// which case requests must upload a file.
func NewAnalysisHandler(adv *advisor.Advisor, chart *data.ChartClient, cfg AnalysisConfig, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		advisor:     adv,
		chart:       chart,
		mapping:     cfg.Mapping,
		sourceRange: cfg.SourceRange,
		timeout:     cfg.RequestTimeout,
		maxUpload:   cfg.MaxUploadBytes,
		log:         log.With().Str("component", "analysis_handler").Logger(),
	}
}

func (h *AnalysisHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func invalidRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", advisor.ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// loadTable reads the uploaded "file" or, failing that, fetches form.Symbol.
func (h *AnalysisHandler) loadTable(ctx context.Context, c *gin.Context, form models.SourceForm) (data.Table, string, error) {
	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		if h.maxUpload > 0 && fh.Size > h.maxUpload {
			return data.Table{}, "", invalidRequest("file exceeds %d bytes", h.maxUpload)
		}
		f, err := fh.Open()
		if err != nil {
			return data.Table{}, "", fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		t, err := data.ReadCSV(f)
		if err != nil {
			return data.Table{}, "", invalidRequest("read csv: %v", err)
		}
		return t, "upload:" + fh.Filename, nil

	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		return data.Table{}, "", invalidRequest("file: %v", err)
	}

	symbol := strings.TrimSpace(form.Symbol)
	if symbol == "" {
		return data.Table{}, "", invalidRequest("either file or symbol is required")
	}
	if h.chart == nil {
		return data.Table{}, "", invalidRequest("symbol lookups are disabled")
	}
	rng := form.Range
	if rng == "" {
		rng = h.sourceRange
	}
	t, err := h.chart.FetchDaily(ctx, symbol, rng)
	if err != nil {
		return data.Table{}, "", err
	}
	return t, "symbol:" + strings.ToUpper(symbol), nil
}

// loadSeries resolves the source and prepares it with the per-request
// column overrides.
func (h *AnalysisHandler) loadSeries(ctx context.Context, c *gin.Context, form models.SourceForm) (model.PriceSeries, data.PrepareStats, string, error) {
	t, source, err := h.loadTable(ctx, c, form)
	if err != nil {
		return model.PriceSeries{}, data.PrepareStats{}, "", err
	}
	mapping := h.mapping
	if form.DateColumn != "" {
		mapping.Date = form.DateColumn
	}
	if form.CloseColumn != "" {
		mapping.Close = form.CloseColumn
	}
	series, stats, err := data.Prepare(t, mapping)
	if err != nil {
		return model.PriceSeries{}, stats, source, err
	}
	h.log.Debug().
		Str("source", source).
		Int("rows", stats.InputRows).
		Int("skipped", stats.SkippedRows).
		Int("observations", series.Len()).
		Msg("series prepared")
	return series, stats, source, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, invalidRequest("%s must be YYYY-MM-DD, got %q", field, s)
	}
	return t, nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseThresholds reads a comma-separated list; empty means "use the ladder".
func parseThresholds(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, invalidRequest("thresholds: %q is not a number", p)
		}
		out = append(out, v)
	}
	return out, nil
}

// respondError maps engine errors onto the JSON error envelope.
func (h *AnalysisHandler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		schemaErr *model.SchemaError
		noFc      *model.NoForecastForDateError
		chartErr  *data.ChartError
	)
	switch {
	case errors.Is(err, advisor.ErrInvalidRequest):
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.As(err, &schemaErr):
		details := map[string]interface{}{"column": schemaErr.Column}
		if schemaErr.Row > 0 {
			details["row"] = schemaErr.Row
			details["value"] = schemaErr.Value
		}
		writeError(c, http.StatusUnprocessableEntity, model.CodeSchema, err.Error(), details)
	case errors.Is(err, model.ErrEmptyInput):
		writeError(c, http.StatusUnprocessableEntity, model.CodeEmptyInput, err.Error(), nil)
	case errors.Is(err, model.ErrInsufficientData):
		writeError(c, http.StatusUnprocessableEntity, model.CodeInsufficientData, err.Error(), nil)
	case errors.As(err, &noFc):
		writeError(c, http.StatusUnprocessableEntity, model.CodeNoForecastForDate, err.Error(),
			map[string]interface{}{"date": noFc.Date.Format(model.DateLayout)})
	case errors.As(err, &chartErr):
		status := http.StatusBadGateway
		switch chartErr.StatusCode {
		case http.StatusNotFound:
			status = http.StatusNotFound
		case http.StatusTooManyRequests:
			status = http.StatusTooManyRequests
		}
		writeError(c, status, "DATA_FETCH_ERROR", chartErr.Message, map[string]interface{}{
			"source_code": chartErr.Code,
			"status_code": chartErr.StatusCode,
		})
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "FORECAST_ERROR", "request timed out", nil)
	case errors.Is(err, advisor.ErrForecast):
		writeError(c, http.StatusUnprocessableEntity, "FORECAST_ERROR", err.Error(), nil)
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}

func writeError(c *gin.Context, status int, code, msg string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: msg, Details: details},
	})
}
