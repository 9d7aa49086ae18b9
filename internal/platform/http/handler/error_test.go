package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"papertrade_backend/internal/shared/apperr"
)

// TestWriteError はエラー分類ごとのステータスとレスポンスボディを検証します。
func TestWriteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "not found keeps detail",
			err:            fmt.Errorf("%w: user 123", apperr.ErrNotFound),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"not found: user 123","kind":"not_found"}`,
		},
		{
			name:           "insufficient funds",
			err:            fmt.Errorf("%w: need 500.00", apperr.ErrInsufficientFunds),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"insufficient funds: need 500.00","kind":"insufficient_funds"}`,
		},
		{
			name:           "provider unavailable",
			err:            apperr.ErrProviderUnavailable,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"error":"price provider unavailable","kind":"provider_unavailable"}`,
		},
		{
			name:           "internal error is masked",
			err:            errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error","kind":"internal"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := gin.New()
			r.GET("/x", func(c *gin.Context) { WriteError(c, tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
