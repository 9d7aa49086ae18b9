package entity

import "time"

// Bar is one period of a ticker's quote history. Missing or unparsable
// prices are carried as NaN and sanitized by the consumer.
type Bar struct {
	Time  time.Time
	Open  float64
	Close float64
}

// Series is the quote history of a single ticker, ordered oldest first.
type Series struct {
	Ticker    string
	AssetType string // Instrument type reported by the provider (e.g., "Common Stock", "Digital Currency")
	Bars      []Bar
}
