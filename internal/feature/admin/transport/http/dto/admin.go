package dto

// LoginRequest は管理者ログインのリクエストボディです。
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse は発行したトークンを返します。
type LoginResponse struct {
	Token string `json:"token"`
}
