package di

import (
	adminhandler "papertrade_backend/internal/feature/admin/transport/handler"
	adminusecase "papertrade_backend/internal/feature/admin/usecase"
	"papertrade_backend/internal/platform/config"
	jwtmw "papertrade_backend/internal/platform/jwt"
)

// NewAdminHandler は管理者ログインのハンドラーを組み立てます。
func NewAdminHandler(cfg *config.Config) *adminhandler.AdminHandler {
	tokens := jwtmw.NewGenerator(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	return adminhandler.NewAdminHandler(adminusecase.NewAdminUsecase(cfg.Admin.PasswordHash, tokens))
}
