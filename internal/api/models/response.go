package models

import "time"

// SeriesResponse describes a prepared price series.
type SeriesResponse struct {
	Source  string        `json:"source"`
	Stats   PrepareStats  `json:"stats"`
	Summary SeriesSummary `json:"summary"`
}

type PrepareStats struct {
	InputRows      int `json:"input_rows"`
	SkippedRows    int `json:"skipped_rows"`
	DuplicateDates int `json:"duplicate_dates"`
	Observations   int `json:"observations"`
}

type SeriesSummary struct {
	Count     int     `json:"count"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	MinClose  float64 `json:"min_close"`
	MaxClose  float64 `json:"max_close"`
	MeanClose float64 `json:"mean_close"`
	P05Close  float64 `json:"p05_close"`
	P95Close  float64 `json:"p95_close"`
	LastClose float64 `json:"last_close"`
}

// BacktestResponse is the retrodiction of the most recent closes.
type BacktestResponse struct {
	Provider             string        `json:"provider"`
	Rows                 []BacktestRow `json:"rows"`
	AverageAbsoluteError float64       `json:"average_absolute_error"`
	MeanError            float64       `json:"mean_error"`
	ErrorTolerance       float64       `json:"error_tolerance"`
	Verdict              string        `json:"verdict"`
	Message              string        `json:"message"`
	Band                 Band          `json:"band"`
}

type BacktestRow struct {
	Date       string  `json:"date"`
	Actual     float64 `json:"actual"`
	Predicted  float64 `json:"predicted"`
	Difference float64 `json:"difference"`
}

// Band offsets are null when the backtest had no difference of that sign.
type Band struct {
	Positive *float64 `json:"positive"`
	Negative *float64 `json:"negative"`
}

// RecommendResponse is the full report for one position.
type RecommendResponse struct {
	ID              string            `json:"id"`
	GeneratedAt     time.Time         `json:"generated_at"`
	Today           string            `json:"today"`
	Provider        string            `json:"provider"`
	Summary         SeriesSummary     `json:"summary"`
	Backtest        *BacktestResponse `json:"backtest"`
	Band            Band              `json:"band"`
	Position        Position          `json:"position"`
	Thresholds      []float64         `json:"thresholds"`
	Recommendations []Recommendation  `json:"recommendations"`
	Target          *TargetEvaluation `json:"target,omitempty"`
	Demand          *DemandScan       `json:"demand,omitempty"`
	Forecast        []ForecastPoint   `json:"forecast,omitempty"`
	Issues          []Issue           `json:"issues,omitempty"`
	Disclaimer      string            `json:"disclaimer"`
}

type Position struct {
	CostBasis    float64 `json:"cost_basis"`
	Quantity     int     `json:"quantity"`
	PurchaseDate string  `json:"purchase_date"`
}

type Recommendation struct {
	Threshold float64 `json:"threshold"`
	Date      string  `json:"date"`
	Estimate  float64 `json:"estimate"`
}

type TargetEvaluation struct {
	Date           string  `json:"date"`
	PredictedPrice float64 `json:"predicted_price"`
	ProfitOrLoss   float64 `json:"profit_or_loss"`
}

type DemandScan struct {
	MinPrice float64         `json:"min_price"`
	Start    string          `json:"start"` // exclusive
	End      string          `json:"end"`
	Matches  []ForecastPoint `json:"matches"`
}

type ForecastPoint struct {
	Date     string  `json:"date"`
	Estimate float64 `json:"estimate"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

// Issue is a sub-operation that failed without failing the request.
type Issue struct {
	Operation string `json:"operation"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// ModelInfo describes a forecast provider and the engine defaults.
type ModelInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes one configurable setting.
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "bool"
	Description string      `json:"description"`
	Value       interface{} `json:"value"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
