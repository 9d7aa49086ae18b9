// Package config loads the server configuration from .env, environment
// variables and defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	DB         DBConfig         `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Market     MarketConfig     `mapstructure:"market"`
	TwelveData TwelveDataConfig `mapstructure:"twelvedata"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
	Admin      AdminConfig      `mapstructure:"admin"`
}

type AppConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"` // local, prod
}

type DBConfig struct {
	Driver        string `mapstructure:"driver"` // sqlite or postgres
	Path          string `mapstructure:"path"`   // sqlite only
	Host          string `mapstructure:"host"`
	Port          string `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Name          string `mapstructure:"name"`
	SSLMode       string `mapstructure:"sslmode"`
	RunMigrations bool   `mapstructure:"run_migrations"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig は約定イベントの送信先です。Brokers が空の場合は送信しません。
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type MarketConfig struct {
	CacheTTL             time.Duration `mapstructure:"cache_ttl"`
	Window               int           `mapstructure:"window"`
	Interval             string        `mapstructure:"interval"`
	DisallowedAssetTypes []string      `mapstructure:"disallowed_asset_types"`
	RateLimitPerMinute   int           `mapstructure:"rate_limit_per_minute"`
	MirrorTTL            time.Duration `mapstructure:"mirror_ttl"`
}

type TwelveDataConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LedgerConfig struct {
	StartingBalance float64 `mapstructure:"starting_balance"`
}

type AdminConfig struct {
	PasswordHash string        `mapstructure:"password_hash"` // bcrypt
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

var keys = []string{
	"app.port", "app.env",
	"db.driver", "db.path", "db.host", "db.port", "db.user", "db.password", "db.name", "db.sslmode", "db.run_migrations",
	"redis.enabled", "redis.addr", "redis.password", "redis.db",
	"kafka.brokers", "kafka.topic",
	"market.cache_ttl", "market.window", "market.interval", "market.disallowed_asset_types",
	"market.rate_limit_per_minute", "market.mirror_ttl",
	"twelvedata.api_key", "twelvedata.base_url", "twelvedata.timeout",
	"ledger.starting_balance",
	"admin.password_hash", "admin.jwt_secret", "admin.token_ttl",
}

// Load は .env（存在すれば）、環境変数、デフォルト値の順で設定を読み込みます。
// 環境変数名はキーのドットをアンダースコアに置き換えた大文字です（例: market.cache_ttl → MARKET_CACHE_TTL）。
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Info("no .env file loaded, using environment variables", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", ":8080")
	v.SetDefault("app.env", "local")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "papertrade.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.run_migrations", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "papertrade.trades")

	v.SetDefault("market.cache_ttl", 30*time.Second)
	v.SetDefault("market.window", 5)
	v.SetDefault("market.interval", "1day")
	v.SetDefault("market.disallowed_asset_types", []string{})
	v.SetDefault("market.rate_limit_per_minute", 8) // Twelve Data free tier
	v.SetDefault("market.mirror_ttl", 24*time.Hour)

	v.SetDefault("twelvedata.base_url", "https://api.twelvedata.com")
	v.SetDefault("twelvedata.timeout", 10*time.Second)

	v.SetDefault("ledger.starting_balance", 100000.0)

	v.SetDefault("admin.token_ttl", 12*time.Hour)
}

// Validate は設定値の整合性を確認します。
func (c *Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("db.driver must be sqlite or postgres, got %q", c.DB.Driver))
	}
	if c.Market.CacheTTL <= 0 {
		errs = append(errs, errors.New("market.cache_ttl must be positive"))
	}
	if c.Market.Window < 2 {
		errs = append(errs, errors.New("market.window must be at least 2"))
	}
	if c.Ledger.StartingBalance <= 0 {
		errs = append(errs, errors.New("ledger.starting_balance must be positive"))
	}
	return errors.Join(errs...)
}

// KafkaEnabled は約定イベントを送信するかどうかを返します。
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0 && c.Kafka.Topic != ""
}
