package usecase

import (
	"context"
	"slices"
	"sync"

	"papertrade_backend/internal/feature/market/domain/entity"
)

// mockSymbolStore はMarketConfigRepositoryとMetadataRepositoryのインメモリ実装です。
type mockSymbolStore struct {
	mu       sync.Mutex
	visible  []string
	meta     map[string]entity.Metadata
	loadErr  error
	saveErr  error
	saveMeta []entity.Metadata
}

func newMockSymbolStore(visible ...string) *mockSymbolStore {
	return &mockSymbolStore{visible: visible, meta: map[string]entity.Metadata{}}
}

func (m *mockSymbolStore) LoadVisible(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return slices.Clone(m.visible), nil
}

func (m *mockSymbolStore) SaveVisible(ctx context.Context, codes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.visible = slices.Clone(codes)
	return nil
}

func (m *mockSymbolStore) FindMetadata(ctx context.Context, codes []string) (map[string]entity.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]entity.Metadata{}
	for _, c := range codes {
		if md, ok := m.meta[c]; ok {
			out[c] = md
		}
	}
	return out, nil
}

func (m *mockSymbolStore) SaveMetadata(ctx context.Context, md entity.Metadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta[md.Symbol] = md
	m.saveMeta = append(m.saveMeta, md)
	return nil
}

// mockHoldings はHoldingsReaderのモック実装です。
type mockHoldings struct {
	held []string
	err  error
}

func (m *mockHoldings) HeldSymbols(ctx context.Context) ([]string, error) {
	return m.held, m.err
}

// mockProvider はQuoteProviderのモック実装です。呼び出し回数と引数を記録します。
type mockProvider struct {
	mu             sync.Mutex
	fetchSeriesFn  func(ctx context.Context, tickers []string, window int) (map[string]entity.Series, error)
	fetchProfileFn func(ctx context.Context, ticker string) (entity.Profile, error)
	seriesCalls    [][]string
	profileCalls   []string
}

func (m *mockProvider) FetchSeries(ctx context.Context, tickers []string, window int) (map[string]entity.Series, error) {
	m.mu.Lock()
	m.seriesCalls = append(m.seriesCalls, slices.Clone(tickers))
	m.mu.Unlock()
	if m.fetchSeriesFn != nil {
		return m.fetchSeriesFn(ctx, tickers, window)
	}
	return map[string]entity.Series{}, nil
}

func (m *mockProvider) FetchProfile(ctx context.Context, ticker string) (entity.Profile, error) {
	m.mu.Lock()
	m.profileCalls = append(m.profileCalls, ticker)
	m.mu.Unlock()
	if m.fetchProfileFn != nil {
		return m.fetchProfileFn(ctx, ticker)
	}
	return entity.Profile{}, nil
}

func (m *mockProvider) seriesCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seriesCalls)
}

// mockMirror はSnapshotMirrorのモック実装です。
type mockMirror struct {
	saved   []entity.CachedSnapshot
	stored  *entity.CachedSnapshot
	saveErr error
	loadErr error
}

func (m *mockMirror) Save(ctx context.Context, snap entity.CachedSnapshot) error {
	m.saved = append(m.saved, snap)
	return m.saveErr
}

func (m *mockMirror) Load(ctx context.Context) (*entity.CachedSnapshot, error) {
	return m.stored, m.loadErr
}

// closes は終値の列から古い順のバー列を生成します。
func closes(values ...float64) entity.Series {
	bars := make([]entity.Bar, 0, len(values))
	for _, v := range values {
		bars = append(bars, entity.Bar{Open: v, Close: v})
	}
	return entity.Series{Bars: bars}
}
