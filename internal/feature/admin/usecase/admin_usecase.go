// Package usecase はadminフィーチャー（盤面管理者の認証）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"papertrade_backend/internal/shared/apperr"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	adminSubject = "admin"
	adminRole    = "admin"
)

// TokenIssuer はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenIssuer interface {
	GenerateToken(subject, role string) (string, error)
}

// AdminUsecase は管理者パスワードを検証し、管理API用のトークンを発行します。
type AdminUsecase struct {
	passwordHash []byte
	tokens       TokenIssuer
}

// NewAdminUsecase は新しい AdminUsecase を作成します。passwordHash はbcryptハッシュです。
// 空の場合は管理者ログインを無効とします。
func NewAdminUsecase(passwordHash string, tokens TokenIssuer) *AdminUsecase {
	return &AdminUsecase{passwordHash: []byte(passwordHash), tokens: tokens}
}

// Login はパスワードを検証し、成功時に署名済みトークンを返します。
func (u *AdminUsecase) Login(ctx context.Context, password string) (string, error) {
	if len(u.passwordHash) == 0 {
		return "", fmt.Errorf("%w: admin login is disabled", apperr.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			slog.Warn("admin login rejected")
			return "", fmt.Errorf("%w: invalid password", apperr.ErrUnauthorized)
		}
		return "", fmt.Errorf("compare admin password: %w", err)
	}

	token, err := u.tokens.GenerateToken(adminSubject, adminRole)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	slog.Info("admin logged in")
	return token, nil
}

// HashPassword は設定ファイル用にパスワードのbcryptハッシュを生成します。
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters long", apperr.ErrValidation, minPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
