package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"papertrade_backend/internal/app/di"
	"papertrade_backend/internal/app/router"
	ledgeradapters "papertrade_backend/internal/feature/ledger/adapters"
	"papertrade_backend/internal/platform/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// db
	db, err := di.OpenDB(cfg)
	if err != nil {
		return err
	}

	// Redis（スナップショットのミラー）。接続できなければミラーなしで起動する
	rdb := di.NewRedis(ctx, cfg)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// Kafka（約定イベント）
	publisher, closePublisher := di.NewTradePublisher(cfg)
	defer func() {
		if err := closePublisher(); err != nil {
			slog.Error("failed to close trade publisher", "error", err)
		}
	}()

	accounts := ledgeradapters.NewAccountRepository(db)
	market := di.NewMarketFeature(cfg, db, rdb, accounts)
	ledger := di.NewLedgerFeature(cfg, accounts, market.Snapshots, publisher)
	admin := di.NewAdminHandler(cfg)

	if cfg.TwelveData.APIKey == "" {
		slog.Warn("TWELVEDATA_API_KEY is not set; price requests will fail")
	}
	if cfg.Admin.JWTSecret == "" || cfg.Admin.PasswordHash == "" {
		slog.Warn("admin credentials are not configured; asset admission over HTTP is disabled")
	}

	srv := &http.Server{
		Addr:              cfg.App.Port,
		Handler:           router.NewRouter(market.Handler, ledger.Handler, admin, cfg.Admin.JWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.App.Port, "env", cfg.App.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
