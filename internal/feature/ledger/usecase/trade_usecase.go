package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrade_backend/internal/feature/ledger/domain/entity"
	"papertrade_backend/internal/shared/apperr"
)

var dust = decimal.NewFromFloat(entity.DustThreshold)

// TradeUsecase は売買注文を検証して口座に適用します。
// 口座の読み込みから保存までを1つのミューテックスで直列化するため、
// 同じ口座への同時注文が古い残高を基に確定することはありません。
type TradeUsecase struct {
	repo      AccountRepository
	prices    PriceSource
	publisher TradeEventPublisher

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// NewTradeUsecase は新しい TradeUsecase を作成します。publisher は nil でも構いません。
func NewTradeUsecase(repo AccountRepository, prices PriceSource, publisher TradeEventPublisher) *TradeUsecase {
	return &TradeUsecase{
		repo:      repo,
		prices:    prices,
		publisher: publisher,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// Execute は注文を約定させ、更新後の口座を返します。
//   - 数量が正でない、または売買区分が不正な場合は ErrValidation
//   - 口座が存在しない場合は ErrNotFound（取引時に口座を自動作成しない）
//   - 銘柄がスナップショットにない、または価格が0の場合は ErrInvalidAsset
//   - 買いで残高が不足する場合は ErrInsufficientFunds
//   - 売りで保有数量を超える場合は ErrInsufficientPosition
func (u *TradeUsecase) Execute(ctx context.Context, order entity.TradeOrder) (*entity.Account, error) {
	order, err := validateOrder(order)
	if err != nil {
		return nil, err
	}

	// 価格取得はプロバイダー呼び出しを伴う可能性があるため、ロックの外で行う
	snap, err := u.prices.GetSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	acct, err := u.repo.Find(ctx, order.UserID)
	if err != nil {
		return nil, err
	}

	entry, ok := snap[order.Symbol]
	if !ok || entry.Price <= 0 {
		return nil, fmt.Errorf("%w: %s is not tradable (no price available)", apperr.ErrInvalidAsset, order.Symbol)
	}

	next, amount, err := apply(acct, order, entry.Price)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save account %s: %w", order.UserID, err)
	}

	slog.Info("trade executed",
		"user_id", order.UserID, "symbol", order.Symbol, "side", order.Side,
		"quantity", order.Quantity, "price", entry.Price, "balance", next.Balance)

	u.publish(ctx, entity.TradeEvent{
		ID:         u.newID(),
		UserID:     order.UserID,
		Symbol:     order.Symbol,
		Side:       order.Side,
		Quantity:   order.Quantity,
		Price:      entry.Price,
		Amount:     amount,
		Balance:    next.Balance,
		ExecutedAt: u.now().UTC(),
	})
	return next.Clone(), nil
}

func (u *TradeUsecase) publish(ctx context.Context, ev entity.TradeEvent) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.PublishTrade(ctx, ev); err != nil {
		slog.Warn("failed to publish trade event", "trade_id", ev.ID, "user_id", ev.UserID, "error", err)
	}
}

func validateOrder(o entity.TradeOrder) (entity.TradeOrder, error) {
	id, err := NormalizeUserID(o.UserID)
	if err != nil {
		return o, err
	}
	o.UserID = id
	o.Symbol = strings.ToUpper(strings.TrimSpace(o.Symbol))
	if o.Symbol == "" {
		return o, fmt.Errorf("%w: symbol is required", apperr.ErrValidation)
	}
	if o.Quantity <= 0 {
		return o, fmt.Errorf("%w: quantity must be a positive integer, got %d", apperr.ErrValidation, o.Quantity)
	}
	side, err := entity.ParseSide(string(o.Side))
	if err != nil {
		return o, apperr.Wrap(apperr.ErrValidation, err)
	}
	o.Side = side
	return o, nil
}

// apply computes the account after the order without touching acct.
// It returns the updated copy and the traded amount.
func apply(acct *entity.Account, o entity.TradeOrder, price float64) (*entity.Account, float64, error) {
	next := acct.Clone()
	balance := decimal.NewFromFloat(acct.Balance)
	qty := decimal.NewFromInt(o.Quantity)
	amount := decimal.NewFromFloat(price).Mul(qty)

	switch o.Side {
	case entity.SideBuy:
		if balance.LessThan(amount) {
			return nil, 0, fmt.Errorf("%w: user %s needs %s to buy %d %s but has %s",
				apperr.ErrInsufficientFunds, o.UserID, amount.StringFixed(2), o.Quantity, o.Symbol, balance.StringFixed(2))
		}
		held := decimal.NewFromFloat(next.Portfolio[o.Symbol])
		next.Balance = balance.Sub(amount).InexactFloat64()
		next.Portfolio[o.Symbol] = held.Add(qty).InexactFloat64()

	case entity.SideSell:
		held := decimal.NewFromFloat(next.Portfolio[o.Symbol])
		if held.LessThan(qty) {
			return nil, 0, fmt.Errorf("%w: user %s holds %s %s, cannot sell %d",
				apperr.ErrInsufficientPosition, o.UserID, held.String(), o.Symbol, o.Quantity)
		}
		next.Balance = balance.Add(amount).InexactFloat64()
		remaining := held.Sub(qty)
		if remaining.LessThan(dust) {
			delete(next.Portfolio, o.Symbol)
		} else {
			next.Portfolio[o.Symbol] = remaining.InexactFloat64()
		}

	default:
		return nil, 0, fmt.Errorf("%w: unknown trade side %q", apperr.ErrValidation, o.Side)
	}
	return next, amount.InexactFloat64(), nil
}
