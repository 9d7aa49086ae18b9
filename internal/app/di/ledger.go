package di

import (
	ledgerhandler "papertrade_backend/internal/feature/ledger/transport/handler"
	ledgerusecase "papertrade_backend/internal/feature/ledger/usecase"
	"papertrade_backend/internal/platform/config"
	"papertrade_backend/internal/platform/kafka"
)

// LedgerFeature は ledger フィーチャーの組み立て済みコンポーネントです。
type LedgerFeature struct {
	Accounts    *ledgerusecase.AccountUsecase
	Trades      *ledgerusecase.TradeUsecase
	Leaderboard *ledgerusecase.LeaderboardUsecase
	Handler     *ledgerhandler.LedgerHandler
}

// NewLedgerFeature は口座・売買・ランキングを組み立てます。publisher は nil でも構いません。
func NewLedgerFeature(
	cfg *config.Config,
	accounts ledgerusecase.AccountRepository,
	prices ledgerusecase.PriceSource,
	publisher ledgerusecase.TradeEventPublisher,
) *LedgerFeature {
	accountUC := ledgerusecase.NewAccountUsecase(accounts, cfg.Ledger.StartingBalance)
	tradeUC := ledgerusecase.NewTradeUsecase(accounts, prices, publisher)
	leaderboardUC := ledgerusecase.NewLeaderboardUsecase(accounts, prices)

	return &LedgerFeature{
		Accounts:    accountUC,
		Trades:      tradeUC,
		Leaderboard: leaderboardUC,
		Handler:     ledgerhandler.NewLedgerHandler(accountUC, tradeUC, leaderboardUC),
	}
}

// NewTradePublisher は Kafka が設定されている場合に約定イベントの送信先を返します。
// 未設定の場合は nil publisher と何もしない close を返します。
func NewTradePublisher(cfg *config.Config) (ledgerusecase.TradeEventPublisher, func() error) {
	if !cfg.KafkaEnabled() {
		return nil, func() error { return nil }
	}
	p := kafka.NewTradePublisher(kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
	return p, p.Close
}
