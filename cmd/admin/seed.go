package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"papertrade_backend/internal/app/di"
	ledgeradapters "papertrade_backend/internal/feature/ledger/adapters"
	ledger "papertrade_backend/internal/feature/ledger/domain/entity"
	marketadapters "papertrade_backend/internal/feature/market/adapters"
	market "papertrade_backend/internal/feature/market/domain/entity"
	"papertrade_backend/internal/platform/config"
	"papertrade_backend/internal/shared/apperr"
)

// defaultBoard は初期盤面の銘柄です（表示順）。
var defaultBoard = []market.Metadata{
	{Symbol: "GGAL", Name: "Grupo Galicia", Sector: "Financiero", Volatility: market.DefaultVolatility},
	{Symbol: "YPFD", Name: "YPF S.A.", Sector: "Energía", Volatility: market.DefaultVolatility},
	{Symbol: "MELI", Name: "Mercado Libre", Sector: "E-Commerce", Volatility: market.DefaultVolatility},
	{Symbol: "MSFT", Name: "Microsoft", Sector: "Tecnología", Volatility: market.DefaultVolatility},
	{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Tecnología", Volatility: market.DefaultVolatility},
	{Symbol: "TSLA", Name: "Tesla", Sector: "Automotriz", Volatility: market.DefaultVolatility},
	{Symbol: "BTC", Name: "Bitcoin", Sector: "Cripto", Volatility: market.DefaultVolatility},
}

// demoAccounts はランキング表示確認用の口座です。
var demoAccounts = []ledger.Account{
	{ID: "999001", Balance: 5000, Portfolio: map[string]float64{"BTC": 1.05}, Initial: 100000},
	{ID: "999002", Balance: 102000, Portfolio: map[string]float64{}, Initial: 100000},
}

type symbolStore interface {
	LoadVisible(ctx context.Context) ([]string, error)
	SaveVisible(ctx context.Context, codes []string) error
	SaveMetadata(ctx context.Context, md market.Metadata) error
}

type accountCreator interface {
	Create(ctx context.Context, acct *ledger.Account) error
}

// seedBoard はメタデータを書き込み、盤面が空（または force）の場合に初期盤面を設定します。
// 書き込んだ盤面の銘柄数を返します。
func seedBoard(ctx context.Context, store symbolStore, force bool) (int, error) {
	for _, md := range defaultBoard {
		if err := store.SaveMetadata(ctx, md); err != nil {
			return 0, fmt.Errorf("save metadata %s: %w", md.Symbol, err)
		}
	}
	visible, err := store.LoadVisible(ctx)
	if err != nil {
		return 0, err
	}
	if len(visible) > 0 && !force {
		return 0, nil
	}
	codes := make([]string, 0, len(defaultBoard))
	for _, md := range defaultBoard {
		codes = append(codes, md.Symbol)
	}
	if err := store.SaveVisible(ctx, codes); err != nil {
		return 0, err
	}
	return len(codes), nil
}

// seedDemoUsers はデモ口座を作成します。既存の口座はそのままにします。
func seedDemoUsers(ctx context.Context, repo accountCreator) (int, error) {
	created := 0
	for _, a := range demoAccounts {
		acct := a.Clone()
		if err := repo.Create(ctx, acct); err != nil {
			if errors.Is(err, apperr.ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("create %s: %w", a.ID, err)
		}
		created++
	}
	return created, nil
}

type seedCmd struct {
	demoUsers bool
	force     bool
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "write the default board and optional demo accounts" }
func (*seedCmd) Usage() string {
	return `seed [-force] [-demo-users]

  Stores metadata for GGAL, YPFD, MELI, MSFT, AAPL, TSLA and BTC and, when the
  board is empty (or -force is given), makes them the visible board in that order.
  -demo-users creates the accounts 999001 and 999002 if they do not exist.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.demoUsers, "demo-users", false, "also create the demo accounts")
	f.BoolVar(&c.force, "force", false, "replace a non-empty board")
}

func (c *seedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	db, err := di.OpenDB(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStores(db, nil)

	n, err := seedBoard(ctx, marketadapters.NewSymbolRepository(db), c.force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding board: %v\n", err)
		return subcommands.ExitFailure
	}
	if n == 0 {
		fmt.Println("board already configured; metadata refreshed")
	} else {
		fmt.Printf("board seeded with %d symbols\n", n)
	}

	if c.demoUsers {
		created, err := seedDemoUsers(ctx, ledgeradapters.NewAccountRepository(db))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding demo accounts: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("created %d demo accounts\n", created)
	}
	return subcommands.ExitSuccess
}
