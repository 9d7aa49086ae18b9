package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"papertrade_backend/internal/app/di"
	ledgeradapters "papertrade_backend/internal/feature/ledger/adapters"
	"papertrade_backend/internal/platform/config"
)

// openMarket は設定・DB・Redisを開き、market フィーチャーを組み立てます。
func openMarket(ctx context.Context) (*di.MarketFeature, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := di.OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	rdb := di.NewRedis(ctx, cfg)
	market := di.NewMarketFeature(cfg, db, rdb, ledgeradapters.NewAccountRepository(db))
	return market, func() { closeStores(db, rdb) }, nil
}

func closeStores(db *gorm.DB, rdb *redis.Client) {
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

type admitCmd struct {
	symbol string
}

func (*admitCmd) Name() string     { return "admit" }
func (*admitCmd) Synopsis() string { return "validate a symbol and add it to the top of the board" }
func (*admitCmd) Usage() string {
	return `admit -symbol <symbol>

  Validates the symbol against the quote provider and adds it to the board.
  Metadata already stored for the symbol is kept as is.
`
}

func (c *admitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "symbol to admit (required)")
}

func (c *admitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -symbol is required.")
		return subcommands.ExitUsageError
	}
	market, closeFn, err := openMarket(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	md, err := market.Admission.Admit(ctx, c.symbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error admitting %s: %v\n", c.symbol, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("admitted %s (%s, %s, volatility %.2f)\n", md.Symbol, md.Name, md.Sector, md.Volatility)
	return subcommands.ExitSuccess
}

type delistCmd struct {
	symbol string
}

func (*delistCmd) Name() string     { return "delist" }
func (*delistCmd) Synopsis() string { return "remove a symbol from the board" }
func (*delistCmd) Usage() string {
	return `delist -symbol <symbol>

  Removes the symbol from the board. Holdings are untouched and keep being priced.
`
}

func (c *delistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "symbol to delist (required)")
}

func (c *delistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -symbol is required.")
		return subcommands.ExitUsageError
	}
	market, closeFn, err := openMarket(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	if err := market.Admission.Delist(ctx, c.symbol); err != nil {
		fmt.Fprintf(os.Stderr, "Error delisting %s: %v\n", c.symbol, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("delisted %s\n", c.symbol)
	return subcommands.ExitSuccess
}
