// Package dto defines data transfer objects for the Twelve Data API responses.
package dto

// TimeSeriesResponse represents the JSON response from the Twelve Data time_series endpoint.
// Values are ordered newest first. Numeric fields are strings and may be empty.
type TimeSeriesResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Meta    struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
		Currency string `json:"currency"`
		Exchange string `json:"exchange"`
		Type     string `json:"type"` // e.g. "Common Stock", "Digital Currency", "ETF"
	} `json:"meta"`
	Values []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		Close    string `json:"close"`
	} `json:"values"`
}

// ErrorResponse is the envelope Twelve Data returns for a failed request.
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ProfileResponse represents the JSON response from the profile endpoint.
type ProfileResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Sector  string `json:"sector"`
	Type    string `json:"type"`
}

// StatisticsResponse represents the subset of the statistics endpoint we use.
type StatisticsResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Statistics struct {
		StockPriceSummary struct {
			Beta *float64 `json:"beta"`
		} `json:"stock_price_summary"`
	} `json:"statistics"`
}
