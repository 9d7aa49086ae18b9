// Package twelvedata provides a client for the Twelve Data market data API.
package twelvedata

import "time"

// DefaultBaseURL is the public Twelve Data endpoint.
const DefaultBaseURL = "https://api.twelvedata.com"

// Config holds configuration for the Twelve Data API client.
type Config struct {
	TwelveDataAPIKey string        // API key for authentication
	BaseURL          string        // Base URL for the API (e.g., "https://api.twelvedata.com")
	Interval         string        // Bar interval for time_series (e.g., "1day")
	Timeout          time.Duration // HTTP request timeout
}
