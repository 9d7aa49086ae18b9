package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade_backend/internal/feature/admin/transport/http/dto"
	"papertrade_backend/internal/platform/http/handler"
	"papertrade_backend/internal/shared/apperr"
)

// AdminUsecase は管理者認証のユースケースです。
type AdminUsecase interface {
	Login(ctx context.Context, password string) (string, error)
}

// AdminHandler は管理者ログインのHTTPリクエストを処理します。
type AdminHandler struct {
	uc AdminUsecase
}

// NewAdminHandler は新しい AdminHandler を作成します。
func NewAdminHandler(uc AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// Login はパスワードを検証してBearerトークンを返します。
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteError(c, apperr.Wrap(apperr.ErrValidation, err))
		return
	}

	token, err := h.uc.Login(c.Request.Context(), req.Password)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}
