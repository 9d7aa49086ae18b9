package router

import (
	"github.com/gin-gonic/gin"

	adminhandler "papertrade_backend/internal/feature/admin/transport/handler"
	ledgerhandler "papertrade_backend/internal/feature/ledger/transport/handler"
	markethandler "papertrade_backend/internal/feature/market/transport/handler"
	"papertrade_backend/internal/platform/http/handler"
	jwtmw "papertrade_backend/internal/platform/jwt"
)

// NewRouter はAPIのルーティングを定義します。jwtSecret は管理APIのトークン検証に使います。
func NewRouter(market *markethandler.MarketHandler, ledger *ledgerhandler.LedgerHandler,
	admin *adminhandler.AdminHandler, jwtSecret string) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)

	api := r.Group("/api")
	{
		api.GET("/health", handler.APIHealth)
		api.GET("/market-data", market.MarketData)
		api.GET("/symbols", market.Symbols)
		api.GET("/leaderboard", ledger.Leaderboard)
		api.POST("/trade", ledger.Trade)
		// 初回アクセスで口座を作成する
		api.GET("/db/:legajo", ledger.GetUser)

		api.POST("/admin/login", admin.Login)
	}

	// 盤面の変更は管理者トークンが必要
	assets := api.Group("/admin/assets")
	assets.Use(jwtmw.AuthRequired(jwtSecret, jwtmw.RoleAdmin))
	{
		assets.POST("", market.Admit)
		assets.DELETE("/:symbol", market.Delist)
	}

	return r
}
