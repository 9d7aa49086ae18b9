// Package entity defines the domain models for the ledger feature.
package entity

import "maps"

// DustThreshold is the quantity below which a position is treated as closed.
const DustThreshold = 0.001

// Account is a user's ledger record: cash, open positions and the capital
// the account was opened with.
type Account struct {
	ID        string             // 学籍番号（legajo）
	Balance   float64            // Cash balance, never negative after a completed trade
	Portfolio map[string]float64 // Symbol to held quantity; every value is > 0
	Initial   float64            // Capital at creation, the ROI denominator
}

// NewAccount returns an empty account funded with the given starting balance.
func NewAccount(id string, startingBalance float64) *Account {
	return &Account{
		ID:        id,
		Balance:   startingBalance,
		Portfolio: map[string]float64{},
		Initial:   startingBalance,
	}
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Portfolio = maps.Clone(a.Portfolio)
	if cp.Portfolio == nil {
		cp.Portfolio = map[string]float64{}
	}
	return &cp
}
