package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade_backend/internal/shared/apperr"
)

// WriteError はエラー分類に応じたステータスでJSONエラーレスポンスを返します。
// 分類外のエラーは内部情報を漏らさないよう汎用メッセージに置き換え、ログにのみ詳細を残します。
func WriteError(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error", "kind": apperr.Kind(err)})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "kind": apperr.Kind(err)})
}
