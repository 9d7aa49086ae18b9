package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"papertrade_backend/internal/shared/apperr"
)

// TickerMap maps a local symbol code to the ticker used by the quote provider.
// Symbols without an override are sent to the provider unchanged.
type TickerMap map[string]string

// DefaultTickerOverrides covers the asset classes whose local code differs
// from the provider's (crypto pairs and local listings).
var DefaultTickerOverrides = TickerMap{
	"BTC":  "BTC/USD",
	"ETH":  "ETH/USD",
	"YPFD": "YPF",
}

// Resolve returns the provider ticker for symbol.
func (m TickerMap) Resolve(symbol string) string {
	if t, ok := m[symbol]; ok && t != "" {
		return t
	}
	return symbol
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,14}$`)

// NormalizeSymbol はユーザー入力の銘柄コードを正規化（前後空白除去・大文字化）し、形式を検証します。
func NormalizeSymbol(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: invalid symbol %q", apperr.ErrValidation, raw)
	}
	return s, nil
}
