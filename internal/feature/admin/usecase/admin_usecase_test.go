package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"papertrade_backend/internal/shared/apperr"
)

// mockTokenIssuer はTokenIssuerのモック実装です。
type mockTokenIssuer struct {
	generateFn func(subject, role string) (string, error)
}

func (m *mockTokenIssuer) GenerateToken(subject, role string) (string, error) {
	return m.generateFn(subject, role)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// TestAdminUsecase_Login はパスワード検証とトークン発行の各ケースを検証します。
func TestAdminUsecase_Login(t *testing.T) {
	t.Parallel()

	hash := mustHash(t, "correct-horse")

	tests := []struct {
		name      string
		hash      string
		password  string
		tokenErr  error
		wantToken string
		wantKind  error
		wantErr   bool
	}{
		{name: "valid password", hash: hash, password: "correct-horse", wantToken: "signed:admin:admin"},
		{name: "wrong password", hash: hash, password: "battery-staple", wantKind: apperr.ErrUnauthorized, wantErr: true},
		{name: "login disabled", hash: "", password: "anything", wantKind: apperr.ErrUnauthorized, wantErr: true},
		{name: "token failure", hash: hash, password: "correct-horse", tokenErr: errors.New("sign failed"), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			issuer := &mockTokenIssuer{generateFn: func(subject, role string) (string, error) {
				if tt.tokenErr != nil {
					return "", tt.tokenErr
				}
				return "signed:" + subject + ":" + role, nil
			}}
			u := NewAdminUsecase(tt.hash, issuer)

			token, err := u.Login(context.Background(), tt.password)
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantKind != nil {
					assert.ErrorIs(t, err, tt.wantKind)
				}
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// TestHashPassword は生成したハッシュで元のパスワードが検証できることを検証します。
func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("long-enough")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("long-enough")))

	_, err = HashPassword("short")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
