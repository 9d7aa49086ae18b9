// Package dto defines data transfer objects for the market HTTP API.
package dto

// AssetData is one symbol's entry in the /api/market-data response.
type AssetData struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	Volatility    float64 `json:"volatility"`
	Sector        string  `json:"sector"`
}

// SymbolItem represents a visible symbol in board order.
type SymbolItem struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Sector     string  `json:"sector"`
	Volatility float64 `json:"volatility"`
}

// AdmitRequest is the body of POST /api/admin/assets.
type AdmitRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}
