package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Issuer は発行するトークンの iss クレームです。
	Issuer = "papertrade"
	// RoleAdmin は盤面管理（銘柄の追加・削除）を許可するロールです。
	RoleAdmin = "admin"
)

// Generator はHS256で署名したJWTを発行します。
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *Generator {
	return &Generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken は subject と role を含む署名済みトークンを生成します。
func (g *Generator) GenerateToken(subject, role string) (string, error) {
	now := g.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iss":  Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(g.expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
