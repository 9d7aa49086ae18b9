package usecase

import (
	"context"
	"fmt"
	"sync"

	ledger "papertrade_backend/internal/feature/ledger/domain/entity"
	market "papertrade_backend/internal/feature/market/domain/entity"
	"papertrade_backend/internal/shared/apperr"
)

// memAccounts はAccountRepositoryのインメモリ実装です。Listは登録順を返します。
type memAccounts struct {
	mu      sync.Mutex
	order   []string
	records map[string]*ledger.Account
	saves   int
	saveErr error
}

func newMemAccounts(accts ...*ledger.Account) *memAccounts {
	m := &memAccounts{records: map[string]*ledger.Account{}}
	for _, a := range accts {
		m.order = append(m.order, a.ID)
		m.records[a.ID] = a.Clone()
	}
	return m
}

func (m *memAccounts) Find(ctx context.Context, id string) (*ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperr.ErrNotFound, id)
	}
	return a.Clone(), nil
}

func (m *memAccounts) Create(ctx context.Context, acct *ledger.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[acct.ID]; ok {
		return fmt.Errorf("%w: user %s", apperr.ErrDuplicate, acct.ID)
	}
	m.order = append(m.order, acct.ID)
	m.records[acct.ID] = acct.Clone()
	return nil
}

func (m *memAccounts) Save(ctx context.Context, acct *ledger.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.records[acct.ID] = acct.Clone()
	return nil
}

func (m *memAccounts) List(ctx context.Context) ([]*ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ledger.Account, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id].Clone())
	}
	return out, nil
}

func (m *memAccounts) get(id string) *ledger.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id].Clone()
}

// fixedPrices はPriceSourceのスタブ実装です。
type fixedPrices struct {
	snap market.Snapshot
	err  error
}

func (f fixedPrices) GetSnapshot(ctx context.Context, force bool) (market.Snapshot, error) {
	return f.snap.Clone(), f.err
}

func pricesOf(kv map[string]float64) fixedPrices {
	snap := market.Snapshot{}
	for sym, p := range kv {
		snap[sym] = market.PriceEntry{Name: sym, Price: p}
	}
	return fixedPrices{snap: snap}
}

// recordingPublisher はTradeEventPublisherのモック実装です。
type recordingPublisher struct {
	mu     sync.Mutex
	events []ledger.TradeEvent
	err    error
}

func (p *recordingPublisher) PublishTrade(ctx context.Context, ev ledger.TradeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func account(id string, balance float64, portfolio map[string]float64, initial float64) *ledger.Account {
	if portfolio == nil {
		portfolio = map[string]float64{}
	}
	return &ledger.Account{ID: id, Balance: balance, Portfolio: portfolio, Initial: initial}
}
