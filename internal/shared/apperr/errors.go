// Package apperr defines the error taxonomy shared by every feature.
// Usecases wrap these sentinels with fmt.Errorf("%w: ...") so callers can
// classify a failure with errors.Is while keeping the rejected detail.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates an unknown user or a symbol that is not on the board.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates that the symbol is already admitted.
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidAsset indicates an unpriceable symbol or a disallowed asset class.
	ErrInvalidAsset = errors.New("invalid asset")

	// ErrInsufficientFunds indicates that the balance does not cover a buy.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientPosition indicates a sell larger than the held quantity.
	ErrInsufficientPosition = errors.New("insufficient position")

	// ErrProviderUnavailable indicates a failed quote fetch with no cached fallback.
	ErrProviderUnavailable = errors.New("price provider unavailable")

	// ErrValidation indicates malformed quantity, side or symbol input.
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized indicates rejected admin credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// Wrap classifies err as kind while keeping its message.
func Wrap(kind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", kind, err)
}

// StatusCode はエラー分類をHTTPステータスコードに変換します。
// 分類に該当しないエラーは500として扱います。
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidAsset),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInsufficientPosition),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns a stable machine-readable name for the error classification.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrInvalidAsset):
		return "invalid_asset"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInsufficientPosition):
		return "insufficient_position"
	case errors.Is(err, ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal"
	}
}
