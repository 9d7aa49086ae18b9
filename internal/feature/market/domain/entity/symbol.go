// Package entity defines the domain models for the market feature.
package entity

// Default metadata values used when a symbol has no stored metadata.
const (
	DefaultSector     = "General"
	DefaultVolatility = 1.0
)

// Metadata holds the static descriptive fields of an admitted symbol.
// It is fetched once on admission and never refreshed afterwards.
type Metadata struct {
	Symbol     string  // Canonical local code (e.g., "BTC", "GGAL")
	Name       string  // Display name
	Sector     string  // Sector or asset class label
	Volatility float64 // Volatility coefficient (provider beta when available)
}

// DefaultMetadata returns the metadata used for a symbol that was never admitted
// with descriptive fields (e.g., a legacy holding).
func DefaultMetadata(symbol string) Metadata {
	return Metadata{
		Symbol:     symbol,
		Name:       symbol,
		Sector:     DefaultSector,
		Volatility: DefaultVolatility,
	}
}

// Profile is the descriptive information the quote provider reports for a ticker.
// Zero values mean the provider did not report the field.
type Profile struct {
	Name   string
	Sector string
	Beta   float64
}
