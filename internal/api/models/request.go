package models

// SourceForm selects the price history: an uploaded CSV in the multipart
// "file" field, or a ticker symbol fetched from the chart source.
type SourceForm struct {
	Symbol      string `form:"symbol"`
	Range       string `form:"range"` // chart range, e.g. "1y", "5y"
	DateColumn  string `form:"date_column"`
	CloseColumn string `form:"close_column"`
}

// RecommendForm is the multipart form for POST /api/v1/recommend.
// Dates are YYYY-MM-DD.
type RecommendForm struct {
	SourceForm
	CostBasis    *float64 `form:"cost_basis" binding:"required"`
	Quantity     int      `form:"quantity" binding:"required"`
	PurchaseDate string   `form:"purchase_date" binding:"required"`
	TargetDate   string   `form:"target_date"`
	MinPrice     *float64 `form:"min_price"`
	Today        string   `form:"today"`
	// Thresholds is a comma-separated ascending list; empty uses the ladder.
	Thresholds      string `form:"thresholds"`
	IncludeForecast bool   `form:"include_forecast"`
}
