package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-forecast/internal/advisor"
	"price-forecast/internal/api/models"
	"price-forecast/internal/data"
	"price-forecast/internal/forecast"
)

// linearCSV is 60 daily closes rising 0.5 a day from 50 on 2023-11-01.
func linearCSV() string {
	var b strings.Builder
	b.WriteString("Date,Open,Close\n")
	d := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "%s,0,%.2f\n", d.AddDate(0, 0, i).Format("2006-01-02"), 50+0.5*float64(i))
	}
	return b.String()
}

func chartJSON() string {
	start := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	ts := make([]string, 60)
	closes := make([]string, 60)
	for i := range ts {
		ts[i] = fmt.Sprint(start.AddDate(0, 0, i).Unix())
		closes[i] = fmt.Sprintf("%.2f", 50+0.5*float64(i))
	}
	return `{"chart":{"result":[{"timestamp":[` + strings.Join(ts, ",") +
		`],"indicators":{"quote":[{"close":[` + strings.Join(closes, ",") + `]}]}}],"error":null}}`
}

func setup(t *testing.T, chartURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prov, err := forecast.NewAdditive(forecast.DefaultAdditiveParams(), zerolog.Nop())
	require.NoError(t, err)
	adv := advisor.New(prov, advisor.DefaultOptions(), zerolog.Nop())

	var chart *data.ChartClient
	if chartURL != "" {
		chart = data.NewChartClient(chartURL, time.Second, nil, zerolog.Nop())
	}
	h := NewAnalysisHandler(adv, chart, AnalysisConfig{
		Mapping:        data.DefaultColumnMapping(),
		SourceRange:    "5y",
		RequestTimeout: 10 * time.Second,
		MaxUploadBytes: 1 << 20,
	}, zerolog.Nop())

	r := gin.New()
	r.POST("/series", h.DescribeSeries)
	r.POST("/backtest", h.RunBacktest)
	r.POST("/recommend", h.Recommend)
	return r
}

func multipartRequest(t *testing.T, path, csv string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if csv != "" {
		fw, err := mw.CreateFormFile("file", "prices.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(csv))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Error.Code
}

func TestDescribeSeries_Upload(t *testing.T) {
	r := setup(t, "")
	w := do(r, multipartRequest(t, "/series", linearCSV(), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SeriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "upload:prices.csv", resp.Source)
	assert.Equal(t, 60, resp.Stats.Observations)
	assert.Equal(t, "2023-11-01", resp.Summary.Start)
	assert.Equal(t, "2023-12-30", resp.Summary.End)
	assert.InDelta(t, 79.5, resp.Summary.LastClose, 1e-9)
}

func TestDescribeSeries_ColumnOverrides(t *testing.T) {
	r := setup(t, "")
	csv := "Day,Price\n2024-01-01,10\n2024-01-02,11\n"

	w := do(r, multipartRequest(t, "/series", csv, nil))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "SCHEMA_ERROR", errorCode(t, w))

	w = do(r, multipartRequest(t, "/series", csv, map[string]string{"date_column": "Day", "close_column": "Price"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDescribeSeries_Errors(t *testing.T) {
	r := setup(t, "")

	t.Run("no source", func(t *testing.T) {
		w := do(r, multipartRequest(t, "/series", "", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_REQUEST", errorCode(t, w))
	})
	t.Run("symbol without chart client", func(t *testing.T) {
		w := do(r, multipartRequest(t, "/series", "", map[string]string{"symbol": "ACME"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("header only", func(t *testing.T) {
		w := do(r, multipartRequest(t, "/series", "Date,Close\n", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "EMPTY_INPUT", errorCode(t, w))
	})
}

func TestRunBacktest(t *testing.T) {
	r := setup(t, "")
	w := do(r, multipartRequest(t, "/backtest", linearCSV(), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.BacktestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "additive", resp.Provider)
	require.Len(t, resp.Rows, 7)
	assert.Equal(t, "2023-12-24", resp.Rows[0].Date)
	assert.Equal(t, "MODEL_USABLE", resp.Verdict)
	assert.NotEmpty(t, resp.Message)
	assert.Less(t, resp.AverageAbsoluteError, 1.0)
}

func TestRecommend_FullReport(t *testing.T) {
	r := setup(t, "")
	w := do(r, multipartRequest(t, "/recommend", linearCSV(), map[string]string{
		"cost_basis":       "60",
		"quantity":         "10",
		"purchase_date":    "2023-11-15",
		"today":            "2023-12-30",
		"target_date":      "2024-01-10",
		"min_price":        "80",
		"include_forecast": "true",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.RecommendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "2023-12-30", resp.Today)
	require.NotNil(t, resp.Backtest)
	assert.Len(t, resp.Thresholds, 20)
	require.NotEmpty(t, resp.Recommendations)
	assert.InDelta(t, 70.0, resp.Recommendations[0].Threshold, 1e-9)
	assert.Greater(t, resp.Recommendations[0].Date, "2023-12-30")

	require.NotNil(t, resp.Target)
	assert.Equal(t, "2024-01-10", resp.Target.Date)
	assert.InDelta(t, (resp.Target.PredictedPrice-60)*10, resp.Target.ProfitOrLoss, 0.01)

	require.NotNil(t, resp.Demand)
	assert.NotEmpty(t, resp.Demand.Matches)
	for _, m := range resp.Demand.Matches {
		assert.GreaterOrEqual(t, m.Estimate, 80.0)
	}
	assert.Len(t, resp.Forecast, 365)
	assert.Empty(t, resp.Issues)
	assert.NotEmpty(t, resp.Disclaimer)
}

func TestRecommend_TargetOutsideForecast(t *testing.T) {
	r := setup(t, "")
	w := do(r, multipartRequest(t, "/recommend", linearCSV(), map[string]string{
		"cost_basis":    "60",
		"quantity":      "1",
		"purchase_date": "2023-11-15",
		"today":         "2023-12-30",
		"target_date":   "2030-01-01",
		"thresholds":    "65, 70",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.RecommendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Target)
	assert.Equal(t, []float64{65, 70}, resp.Thresholds)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, "NO_FORECAST_FOR_DATE", resp.Issues[0].Code)
}

func TestRecommend_InvalidInput(t *testing.T) {
	r := setup(t, "")
	base := map[string]string{
		"cost_basis":    "60",
		"quantity":      "1",
		"purchase_date": "2023-11-15",
		"today":         "2023-12-30",
	}
	with := func(k, v string) map[string]string {
		m := make(map[string]string, len(base)+1)
		for bk, bv := range base {
			m[bk] = bv
		}
		if v == "" {
			delete(m, k)
		} else {
			m[k] = v
		}
		return m
	}

	cases := map[string]map[string]string{
		"missing cost":       with("cost_basis", ""),
		"zero quantity":      with("quantity", "0"),
		"bad purchase date":  with("purchase_date", "15/11/2023"),
		"future purchase":    with("purchase_date", "2024-06-01"),
		"bad thresholds":     with("thresholds", "70,abc"),
		"descending ladder":  with("thresholds", "80,70"),
		"negative min price": with("min_price", "-5"),
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(r, multipartRequest(t, "/recommend", linearCSV(), fields))
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, "INVALID_REQUEST", errorCode(t, w))
		})
	}
}

func TestSymbolSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v8/finance/chart/MISSING" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "2y", r.URL.Query().Get("range"))
		_, _ = w.Write([]byte(chartJSON()))
	}))
	defer srv.Close()
	r := setup(t, srv.URL)

	w := do(r, multipartRequest(t, "/series", "", map[string]string{"symbol": "acme", "range": "2y"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.SeriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "symbol:ACME", resp.Source)
	assert.Equal(t, 60, resp.Stats.Observations)

	w = do(r, multipartRequest(t, "/series", "", map[string]string{"symbol": "MISSING", "range": "2y"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "DATA_FETCH_ERROR", errorCode(t, w))
}
