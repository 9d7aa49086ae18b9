// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	marketadapters "papertrade_backend/internal/feature/market/adapters"
	markethandler "papertrade_backend/internal/feature/market/transport/handler"
	marketusecase "papertrade_backend/internal/feature/market/usecase"
	"papertrade_backend/internal/platform/cache"
	"papertrade_backend/internal/platform/config"
	"papertrade_backend/internal/platform/externalapi/twelvedata"
	infrahttp "papertrade_backend/internal/platform/http"
	"papertrade_backend/internal/shared/ratelimiter"
)

// NewMarket creates a fully configured TwelveDataMarket with HTTP client.
func NewMarket(cfg *config.Config) *twelvedata.TwelveDataMarket {
	tdCfg := twelvedata.Config{
		TwelveDataAPIKey: cfg.TwelveData.APIKey,
		BaseURL:          cfg.TwelveData.BaseURL,
		Interval:         cfg.Market.Interval,
		Timeout:          cfg.TwelveData.Timeout,
	}
	httpClient := infrahttp.NewHTTPClient(tdCfg.Timeout)
	return twelvedata.NewTwelveDataMarket(tdCfg, httpClient)
}

// MarketFeature は market フィーチャーの組み立て済みコンポーネントです。
type MarketFeature struct {
	Snapshots *marketusecase.SnapshotUsecase
	Board     *marketusecase.BoardUsecase
	Admission *marketusecase.AdmissionUsecase
	Handler   *markethandler.MarketHandler
}

// NewMarketFeature は価格エンジン・盤面・銘柄追加を組み立てます。
// rdb が nil の場合、スナップショットのミラーは無効になります。
// holdings は保有銘柄の参照先で、通常は ledger の口座リポジトリです。
func NewMarketFeature(cfg *config.Config, db *gorm.DB, rdb *redis.Client, holdings marketusecase.HoldingsReader) *MarketFeature {
	symbols := marketadapters.NewSymbolRepository(db)
	provider := NewMarket(cfg)
	// 価格更新と銘柄追加で同じAPIキーの枠を共有する
	limiter := ratelimiter.NewRateLimiter(cfg.Market.RateLimitPerMinute, time.Minute)
	mirror := cache.NewSnapshotMirror(rdb, cfg.Market.MirrorTTL, "papertrade")

	snapshots := marketusecase.NewSnapshotUsecase(
		marketusecase.SnapshotConfig{TTL: cfg.Market.CacheTTL, Window: cfg.Market.Window},
		symbols, symbols, holdings, provider, limiter, mirror,
	)
	board := marketusecase.NewBoardUsecase(symbols, symbols, snapshots)
	admission := marketusecase.NewAdmissionUsecase(
		marketusecase.AdmissionConfig{Window: cfg.Market.Window, DisallowedAssetTypes: cfg.Market.DisallowedAssetTypes},
		symbols, symbols, provider, snapshots, limiter,
	)

	return &MarketFeature{
		Snapshots: snapshots,
		Board:     board,
		Admission: admission,
		Handler:   markethandler.NewMarketHandler(board, admission),
	}
}
