package entity

import (
	"fmt"
	"strings"
	"time"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide parses a case-insensitive side name.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", fmt.Errorf("unknown trade side %q (want buy or sell)", s)
	}
}

// TradeOrder is a request to buy or sell a whole number of units.
type TradeOrder struct {
	UserID   string
	Symbol   string
	Quantity int64
	Side     Side
}

// TradeEvent records an executed trade.
type TradeEvent struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	Quantity   int64     `json:"quantity"`
	Price      float64   `json:"price"`
	Amount     float64   `json:"amount"`
	Balance    float64   `json:"balance_after"`
	ExecutedAt time.Time `json:"executed_at"`
}
