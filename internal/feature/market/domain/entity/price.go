package entity

import (
	"maps"
	"time"
)

// DegenerateSector is the sector reported for a symbol the provider could not price.
const DegenerateSector = "N/A"

// PriceEntry is one symbol's row in a price snapshot.
type PriceEntry struct {
	Name          string
	Price         float64 // Last valid close, never negative
	ChangePercent float64 // Versus the prior valid close, 0 when unavailable
	Volatility    float64
	Sector        string
}

// DegenerateEntry is the explicit zero-valued entry published for a symbol
// without usable provider data.
func DegenerateEntry(symbol string) PriceEntry {
	return PriceEntry{
		Name:          symbol,
		Price:         0,
		ChangePercent: 0,
		Volatility:    0,
		Sector:        DegenerateSector,
	}
}

// Snapshot maps a symbol code to its latest price entry.
type Snapshot map[string]PriceEntry

// Price returns the snapshot price of symbol, or 0 when the symbol is absent.
func (s Snapshot) Price(symbol string) float64 {
	return s[symbol].Price
}

// Clone returns an independent copy so that callers cannot mutate cached data.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// CachedSnapshot is a snapshot together with the time it was captured.
type CachedSnapshot struct {
	Entries    Snapshot  `json:"entries"`
	CapturedAt time.Time `json:"captured_at"`
}
