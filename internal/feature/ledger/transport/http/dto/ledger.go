// Package dto defines data transfer objects for the ledger HTTP API.
package dto

import "papertrade_backend/internal/feature/ledger/domain/entity"

// TradeRequest is the body of POST /api/trade.
type TradeRequest struct {
	Legajo   string `json:"legajo" binding:"required"`
	Asset    string `json:"asset" binding:"required"`
	Quantity int64  `json:"quantity"`
	Type     string `json:"type" binding:"required"`
}

// UserData is the client view of an account.
type UserData struct {
	Balance   float64            `json:"balance"`
	Portfolio map[string]float64 `json:"portfolio"`
	Initial   float64            `json:"initial"`
}

// TradeResponse is returned after a successful trade.
type TradeResponse struct {
	Status   string   `json:"status"`
	UserData UserData `json:"userData"`
}

// RankingItem is one leaderboard row.
type RankingItem struct {
	Legajo string  `json:"legajo"`
	Total  float64 `json:"total"`
	ROI    float64 `json:"roi"`
}

// NewUserData converts an account to its client view.
func NewUserData(a *entity.Account) UserData {
	portfolio := a.Portfolio
	if portfolio == nil {
		portfolio = map[string]float64{}
	}
	return UserData{Balance: a.Balance, Portfolio: portfolio, Initial: a.Initial}
}
