// Package usecase implements the ledger: account lookup, trade execution and valuation.
package usecase

import (
	"context"

	ledger "papertrade_backend/internal/feature/ledger/domain/entity"
	market "papertrade_backend/internal/feature/market/domain/entity"
)

// AccountRepository は口座の永続化を抽象化します。
// Find は未登録の場合 apperr.ErrNotFound を、Create は登録済みの場合 apperr.ErrDuplicate を返します。
// Save はレコード全体（残高とポートフォリオ）を置き換えます。
type AccountRepository interface {
	Find(ctx context.Context, id string) (*ledger.Account, error)
	Create(ctx context.Context, acct *ledger.Account) error
	Save(ctx context.Context, acct *ledger.Account) error
	List(ctx context.Context) ([]*ledger.Account, error)
}

// PriceSource は現在の価格スナップショットを提供します。
type PriceSource interface {
	GetSnapshot(ctx context.Context, force bool) (market.Snapshot, error)
}

// TradeEventPublisher は約定イベントを外部に通知します。
type TradeEventPublisher interface {
	PublishTrade(ctx context.Context, ev ledger.TradeEvent) error
}
