package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"papertrade_backend/internal/platform/config"
	infradb "papertrade_backend/internal/platform/db"
	infraredis "papertrade_backend/internal/platform/redis"
)

// OpenDB は設定に従ってデータベースへ接続します。
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	return infradb.OpenDB(infradb.Config{
		Driver:        cfg.DB.Driver,
		Path:          cfg.DB.Path,
		Host:          cfg.DB.Host,
		Port:          cfg.DB.Port,
		User:          cfg.DB.User,
		Password:      cfg.DB.Password,
		Name:          cfg.DB.Name,
		SSLMode:       cfg.DB.SSLMode,
		RunMigrations: cfg.DB.RunMigrations,
	})
}

// NewRedis はRedisが有効な場合にクライアントを返します。
// 無効または接続できない場合は nil を返し、呼び出し側はミラーなしで動作します。
func NewRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		slog.Warn("redis unavailable, running without snapshot mirror", "error", err)
		return nil
	}
	return rdb
}
