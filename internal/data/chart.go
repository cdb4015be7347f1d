package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const defaultChartBaseURL = "https://query1.finance.yahoo.com"

// ChartClient pulls daily closes from a Yahoo-compatible chart endpoint and
// hands them back as a raw Table, so they go through the same Prepare path as
// an uploaded file.
type ChartClient struct {
	BaseURL string
	Client  *http.Client
	Cache   *ResponseCache // nil disables caching

	log zerolog.Logger
}

// NewChartClient creates a chart client. If baseURL is empty the public
// Yahoo Finance host is used.
func NewChartClient(baseURL string, timeout time.Duration, cache *ResponseCache, log zerolog.Logger) *ChartClient {
	if baseURL == "" {
		baseURL = defaultChartBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChartClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		Cache:   cache,
		log:     log.With().Str("component", "chart_client").Logger(),
	}
}

// ChartError is a non-transport failure reported by the chart endpoint.
type ChartError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ChartError) Error() string { return e.Message }

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily returns daily closes for symbol over rng ("1y", "5y", "max", ...)
// as a Date/Close table. Null closes (holidays) are left blank so Prepare skips them.
func (c *ChartClient) FetchDaily(ctx context.Context, symbol, rng string) (Table, error) {
	if symbol == "" {
		return Table{}, &ChartError{Code: "MISSING_SYMBOL", Message: "symbol is required"}
	}
	if rng == "" {
		rng = "5y"
	}

	key := CacheKey(symbol, rng)
	if t, ok := c.Cache.Get(key); ok {
		c.log.Debug().Str("symbol", symbol).Str("range", rng).Int("rows", len(t.Rows)).Msg("cache hit")
		return t, nil
	}

	u, err := url.Parse(c.BaseURL + "/v8/finance/chart/" + url.PathEscape(symbol))
	if err != nil {
		return Table{}, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("interval", "1d")
	q.Set("range", rng)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Table{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Dur("duration", time.Since(start)).Msg("request failed")
		return Table{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Info().
		Str("symbol", symbol).
		Str("range", rng).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("chart response")

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Table{}, &ChartError{StatusCode: resp.StatusCode, Code: "UNKNOWN_SYMBOL", Message: fmt.Sprintf("symbol %q not found", symbol)}
	case http.StatusTooManyRequests:
		return Table{}, &ChartError{StatusCode: resp.StatusCode, Code: "RATE_LIMIT_EXCEEDED", Message: "rate limit exceeded, retry later"}
	default:
		return Table{}, &ChartError{StatusCode: resp.StatusCode, Code: "API_ERROR", Message: fmt.Sprintf("chart API returned status %d", resp.StatusCode)}
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Table{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Chart.Error != nil {
		return Table{}, &ChartError{StatusCode: resp.StatusCode, Code: "API_ERROR", Message: body.Chart.Error.Description}
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return Table{}, &ChartError{StatusCode: resp.StatusCode, Code: "NO_DATA", Message: "chart API returned no data"}
	}

	res := body.Chart.Result[0]
	closes := res.Indicators.Quote[0].Close
	t := Table{Header: []string{"Date", "Close"}, Rows: make([][]string, 0, len(res.Timestamp))}
	for i, ts := range res.Timestamp {
		cell := ""
		if i < len(closes) && closes[i] != nil {
			cell = strconv.FormatFloat(*closes[i], 'f', -1, 64)
		}
		date := time.Unix(ts, 0).UTC().Format("2006-01-02")
		t.Rows = append(t.Rows, []string{date, cell})
	}

	c.Cache.Set(key, t)
	return t, nil
}
