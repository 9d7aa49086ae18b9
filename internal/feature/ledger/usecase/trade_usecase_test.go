package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledger "papertrade_backend/internal/feature/ledger/domain/entity"
	"papertrade_backend/internal/shared/apperr"
)

func newTestTrader(repo AccountRepository, prices PriceSource, pub TradeEventPublisher) *TradeUsecase {
	u := NewTradeUsecase(repo, prices, pub)
	u.now = func() time.Time { return time.Date(2025, 3, 3, 15, 4, 5, 0, time.UTC) }
	u.newID = func() string { return "trade-1" }
	return u
}

// TestTradeUsecase_Execute は売買の正常系とエラー分類をテーブル駆動で検証します。
func TestTradeUsecase_Execute(t *testing.T) {
	t.Parallel()

	prices := pricesOf(map[string]float64{"AAPL": 150, "BTC": 95000, "GGAL": 42.5, "DEAD": 0})

	tests := []struct {
		name      string
		account   *ledger.Account
		order     ledger.TradeOrder
		wantErr   error
		wantAcct  *ledger.Account
		wantSaved bool
	}{
		{
			name:     "buy opens position",
			account:  account("1", 1000, nil, 100000),
			order:    ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: 2, Side: ledger.SideBuy},
			wantAcct: account("1", 700, map[string]float64{"AAPL": 2}, 100000),
		},
		{
			name:     "buy adds to fractional position",
			account:  account("1", 100000, map[string]float64{"BTC": 1.05}, 100000),
			order:    ledger.TradeOrder{UserID: "1", Symbol: "btc", Quantity: 1, Side: "BUY"},
			wantAcct: account("1", 5000, map[string]float64{"BTC": 2.05}, 100000),
		},
		{
			name:     "buy spending the whole balance",
			account:  account("1", 85, nil, 100000),
			order:    ledger.TradeOrder{UserID: "1", Symbol: "GGAL", Quantity: 2, Side: ledger.SideBuy},
			wantAcct: account("1", 0, map[string]float64{"GGAL": 2}, 100000),
		},
		{
			name:     "sell partial",
			account:  account("1", 0, map[string]float64{"AAPL": 5}, 100000),
			order:    ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: 2, Side: ledger.SideSell},
			wantAcct: account("1", 300, map[string]float64{"AAPL": 3}, 100000),
		},
		{
			name:     "sell exact quantity prunes position",
			account:  account("1", 0, map[string]float64{"AAPL": 2, "GGAL": 1}, 100000),
			order:    ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: 2, Side: ledger.SideSell},
			wantAcct: account("1", 300, map[string]float64{"GGAL": 1}, 100000),
		},
		{
			name:     "sell leaving dust prunes position",
			account:  account("1", 0, map[string]float64{"BTC": 1.0004}, 100000),
			order:    ledger.TradeOrder{UserID: "1", Symbol: "BTC", Quantity: 1, Side: ledger.SideSell},
			wantAcct: account("1", 95000, nil, 100000),
		},
		{
			name:    "insufficient funds",
			account: account("1", 299.99, nil, 100000),
			order:   ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: 2, Side: ledger.SideBuy},
			wantErr: apperr.ErrInsufficientFunds,
		},
		{
			name:    "sell more than held",
			account: account("1", 0, map[string]float64{"AAPL": 2}, 100000),
			order:   ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: 3, Side: ledger.SideSell},
			wantErr: apperr.ErrInsufficientPosition,
		},
		{
			name:    "sell without position",
			account: account("1", 1000, nil, 100000),
			order:   ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: 1, Side: ledger.SideSell},
			wantErr: apperr.ErrInsufficientPosition,
		},
		{
			name:    "unknown user",
			account: account("1", 1000, nil, 100000),
			order:   ledger.TradeOrder{UserID: "2", Symbol: "AAPL", Quantity: 1, Side: ledger.SideBuy},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:    "symbol not in snapshot",
			account: account("1", 1000, nil, 100000),
			order:   ledger.TradeOrder{UserID: "1", Symbol: "NVDA", Quantity: 1, Side: ledger.SideBuy},
			wantErr: apperr.ErrInvalidAsset,
		},
		{
			name:    "zero price",
			account: account("1", 1000, map[string]float64{"DEAD": 1}, 100000),
			order:   ledger.TradeOrder{UserID: "1", Symbol: "DEAD", Quantity: 1, Side: ledger.SideSell},
			wantErr: apperr.ErrInvalidAsset,
		},
		{
			name:    "zero quantity",
			account: account("1", 1000, nil, 100000),
			order:   ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: 0, Side: ledger.SideBuy},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "negative quantity",
			account: account("1", 1000, nil, 100000),
			order:   ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: -1, Side: ledger.SideSell},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "unknown side",
			account: account("1", 1000, nil, 100000),
			order:   ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: 1, Side: "short"},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "missing symbol",
			account: account("1", 1000, nil, 100000),
			order:   ledger.TradeOrder{UserID: "1", Symbol: " ", Quantity: 1, Side: ledger.SideBuy},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newMemAccounts(tt.account)
			pub := &recordingPublisher{}
			u := newTestTrader(repo, prices, pub)

			got, err := u.Execute(context.Background(), tt.order)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Equal(t, tt.account, repo.get(tt.account.ID), "record must be unchanged")
				assert.Zero(t, repo.saves)
				assert.Empty(t, pub.events)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAcct, got)
			assert.Equal(t, tt.wantAcct, repo.get(tt.account.ID))
			require.Len(t, pub.events, 1)
		})
	}
}

// TestTradeUsecase_ErrorDetail はエラーメッセージが拒否理由の詳細を含むことを検証します。
func TestTradeUsecase_ErrorDetail(t *testing.T) {
	t.Parallel()

	repo := newMemAccounts(account("999002", 100, map[string]float64{"AAPL": 1}, 100000))
	u := newTestTrader(repo, pricesOf(map[string]float64{"AAPL": 150}), nil)

	_, err := u.Execute(context.Background(), ledger.TradeOrder{UserID: "999002", Symbol: "AAPL", Quantity: 1, Side: ledger.SideBuy})
	assert.EqualError(t, err, "insufficient funds: user 999002 needs 150.00 to buy 1 AAPL but has 100.00")

	_, err = u.Execute(context.Background(), ledger.TradeOrder{UserID: "999002", Symbol: "AAPL", Quantity: 2, Side: ledger.SideSell})
	assert.EqualError(t, err, "insufficient position: user 999002 holds 1 AAPL, cannot sell 2")
}

// TestTradeUsecase_PublishesEvent は約定イベントの内容と、通知失敗が約定に影響しないことを検証します。
func TestTradeUsecase_PublishesEvent(t *testing.T) {
	t.Parallel()

	repo := newMemAccounts(account("7", 1000, nil, 100000))
	pub := &recordingPublisher{err: errors.New("kafka: leader not available")}
	u := newTestTrader(repo, pricesOf(map[string]float64{"GGAL": 42.5}), pub)

	got, err := u.Execute(context.Background(), ledger.TradeOrder{UserID: "7", Symbol: "GGAL", Quantity: 3, Side: ledger.SideBuy})
	require.NoError(t, err)
	assert.Equal(t, 872.5, got.Balance)

	require.Len(t, pub.events, 1)
	assert.Equal(t, ledger.TradeEvent{
		ID:         "trade-1",
		UserID:     "7",
		Symbol:     "GGAL",
		Side:       ledger.SideBuy,
		Quantity:   3,
		Price:      42.5,
		Amount:     127.5,
		Balance:    872.5,
		ExecutedAt: time.Date(2025, 3, 3, 15, 4, 5, 0, time.UTC),
	}, pub.events[0])
}

func TestTradeUsecase_ProviderUnavailable(t *testing.T) {
	t.Parallel()

	repo := newMemAccounts(account("1", 1000, nil, 100000))
	u := newTestTrader(repo, fixedPrices{err: fmt.Errorf("%w: timeout", apperr.ErrProviderUnavailable)}, nil)

	_, err := u.Execute(context.Background(), ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: 1, Side: ledger.SideBuy})
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
}

func TestTradeUsecase_SaveFailureLeavesRecord(t *testing.T) {
	t.Parallel()

	repo := newMemAccounts(account("1", 1000, nil, 100000))
	repo.saveErr = errors.New("disk full")
	pub := &recordingPublisher{}
	u := newTestTrader(repo, pricesOf(map[string]float64{"AAPL": 150}), pub)

	_, err := u.Execute(context.Background(), ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: 1, Side: ledger.SideBuy})
	assert.ErrorIs(t, err, repo.saveErr)
	assert.Equal(t, 1000.0, repo.get("1").Balance)
	assert.Empty(t, pub.events)
}

// TestTradeUsecase_ConcurrentTrades は同一口座への同時注文が古い残高を基に確定しないことを検証します。
func TestTradeUsecase_ConcurrentTrades(t *testing.T) {
	t.Parallel()

	// 残高は10株分のみ。20件の同時買い注文のうち成功するのは10件だけ
	repo := newMemAccounts(account("1", 1500, nil, 100000))
	u := newTestTrader(repo, pricesOf(map[string]float64{"AAPL": 150}), nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, rejected := 0, 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := u.Execute(context.Background(), ledger.TradeOrder{UserID: "1", Symbol: "AAPL", Quantity: 1, Side: ledger.SideBuy})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, apperr.ErrInsufficientFunds) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, rejected)
	final := repo.get("1")
	assert.Equal(t, 0.0, final.Balance)
	assert.Equal(t, 10.0, final.Portfolio["AAPL"])
}

// TestApply_BuyArithmetic は買いの残高計算が価格×数量と一致することを検証します。
func TestApply_BuyArithmetic(t *testing.T) {
	t.Parallel()

	acct := account("1", 100000, nil, 100000)
	next, amount, err := apply(acct, ledger.TradeOrder{UserID: "1", Symbol: "MSFT", Quantity: 3, Side: ledger.SideBuy}, 410.12)
	require.NoError(t, err)

	want := decimal.NewFromInt(100000).Sub(decimal.RequireFromString("1230.36"))
	assert.Equal(t, want.InexactFloat64(), next.Balance)
	assert.Equal(t, 1230.36, amount)
	assert.Equal(t, 3.0, next.Portfolio["MSFT"])
	assert.Empty(t, acct.Portfolio, "input account must not be mutated")
}
