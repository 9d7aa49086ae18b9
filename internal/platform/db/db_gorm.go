// Package db opens the relational store shared by the market and ledger features.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	ledgeradapters "papertrade_backend/internal/feature/ledger/adapters"
	marketadapters "papertrade_backend/internal/feature/market/adapters"
)

const retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	Driver         string // sqlite or postgres
	Path           string // sqlite file path
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	RunMigrations  bool
	ConnectTimeout time.Duration
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN は接続先に応じたDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.Driver == "postgres" {
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
	}
	if cfg.Path == "" {
		return "papertrade.db"
	}
	return cfg.Path
}

// NewOpener はドライバ名に対応するOpenerを返します。
// 一意制約違反を gorm.ErrDuplicatedKey に変換するため TranslateError を有効にします。
func NewOpener(driver string) (Opener, error) {
	gcfg := &gorm.Config{TranslateError: true}
	switch driver {
	case "postgres":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}, nil
	case "sqlite", "":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gcfg)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// ConnectWithRetry は timeout に達するまで一定間隔で接続を再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// Migrate は銘柄・口座・保有ポジションのテーブルを作成または更新します。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&marketadapters.SymbolModel{},
		&ledgeradapters.AccountModel{},
		&ledgeradapters.PositionModel{},
	)
}

// OpenDB は設定に従ってデータベースへ接続し、必要ならマイグレーションを実行します。
func OpenDB(cfg Config) (*gorm.DB, error) {
	open, err := NewOpener(cfg.Driver)
	if err != nil {
		return nil, err
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), timeout, open)
	if err != nil {
		return nil, err
	}

	if cfg.Driver != "postgres" {
		// sqlite は単一ライターのため接続を1本に絞る
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	slog.Info("database ready", "driver", cfg.Driver)
	return db, nil
}
