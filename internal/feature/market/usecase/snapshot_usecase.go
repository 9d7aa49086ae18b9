package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"papertrade_backend/internal/feature/market/domain/entity"
	"papertrade_backend/internal/shared/apperr"
	"papertrade_backend/internal/shared/ratelimiter"
)

const (
	// DefaultCacheTTL はスナップショットキャッシュのデフォルト有効期間です。
	DefaultCacheTTL = 30 * time.Second
	// DefaultWindow は価格計算のために取得する直近バーの本数です。
	DefaultWindow = 5

	refreshKey      = "refresh"
	forceRefreshKey = "refresh:force"
)

// SnapshotConfig holds the tunables of the market data engine.
type SnapshotConfig struct {
	TTL     time.Duration
	Window  int
	Tickers TickerMap
}

// SnapshotUsecase is the market data engine. It reconciles the visible and
// held symbol sets into one priced snapshot and owns the PriceCache.
type SnapshotUsecase struct {
	cfg      SnapshotConfig
	config   MarketConfigRepository
	metadata MetadataRepository
	holdings HoldingsReader
	provider QuoteProvider
	limiter  ratelimiter.RateLimiterInterface
	mirror   SnapshotMirror

	cache  *PriceCache
	flight singleflight.Group
	now    func() time.Time
}

// NewSnapshotUsecase creates the engine. limiter and mirror may be nil.
func NewSnapshotUsecase(
	cfg SnapshotConfig,
	config MarketConfigRepository,
	metadata MetadataRepository,
	holdings HoldingsReader,
	provider QuoteProvider,
	limiter ratelimiter.RateLimiterInterface,
	mirror SnapshotMirror,
) *SnapshotUsecase {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.Window < 2 {
		cfg.Window = DefaultWindow
	}
	if cfg.Tickers == nil {
		cfg.Tickers = DefaultTickerOverrides
	}
	return &SnapshotUsecase{
		cfg:      cfg,
		config:   config,
		metadata: metadata,
		holdings: holdings,
		provider: provider,
		limiter:  limiter,
		mirror:   mirror,
		cache:    NewPriceCache(),
		now:      time.Now,
	}
}

// GetSnapshot returns the price snapshot of every required symbol.
// Within the TTL the cached snapshot is returned unchanged unless force is set.
// Concurrent refreshes are collapsed into a single provider call.
func (u *SnapshotUsecase) GetSnapshot(ctx context.Context, force bool) (entity.Snapshot, error) {
	if !force {
		if snap, ok := u.cache.Fresh(u.now(), u.cfg.TTL); ok {
			return snap, nil
		}
	}

	key := refreshKey
	if force {
		key = forceRefreshKey
	}
	v, err, _ := u.flight.Do(key, func() (interface{}, error) {
		// 待機中に別のリフレッシュが完了している可能性があるため再確認する
		if !force {
			if snap, ok := u.cache.Fresh(u.now(), u.cfg.TTL); ok {
				return snap, nil
			}
		}
		return u.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(entity.Snapshot).Clone(), nil
}

// refresh builds a new snapshot and swaps it into the cache.
// On failure the previous snapshot (in memory, then mirrored) is served.
func (u *SnapshotUsecase) refresh(ctx context.Context) (entity.Snapshot, error) {
	snap, err := u.build(ctx)
	if err != nil {
		return u.fallback(ctx, err)
	}

	capturedAt := u.now()
	u.cache.Store(snap, capturedAt)
	if u.mirror != nil {
		if err := u.mirror.Save(ctx, entity.CachedSnapshot{Entries: snap, CapturedAt: capturedAt}); err != nil {
			slog.Warn("failed to mirror price snapshot", "error", err)
		}
	}
	return snap, nil
}

func (u *SnapshotUsecase) fallback(ctx context.Context, cause error) (entity.Snapshot, error) {
	if cached, ok := u.cache.Load(); ok {
		slog.Warn("price refresh failed, serving cached snapshot",
			"error", cause, "captured_at", cached.CapturedAt)
		return cached.Entries, nil
	}

	if u.mirror != nil {
		mirrored, err := u.mirror.Load(ctx)
		if err != nil {
			slog.Warn("failed to load mirrored price snapshot", "error", err)
		}
		if err == nil && mirrored != nil && len(mirrored.Entries) > 0 {
			slog.Warn("price refresh failed on cold cache, serving mirrored snapshot",
				"error", cause, "captured_at", mirrored.CapturedAt)
			// 元の取得時刻のまま格納し、次回の読み取りで再取得を試みる
			u.cache.Store(mirrored.Entries, mirrored.CapturedAt)
			return mirrored.Entries.Clone(), nil
		}
	}

	slog.Error("price refresh failed with no cached snapshot", "error", cause)
	return nil, cause
}

// build computes a fresh snapshot for the required symbol set.
func (u *SnapshotUsecase) build(ctx context.Context) (entity.Snapshot, error) {
	visible, err := u.config.LoadVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("load market configuration: %w", err)
	}
	held, err := u.holdings.HeldSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("load held symbols: %w", err)
	}
	required := requiredSymbols(visible, held)
	if len(required) == 0 {
		return entity.Snapshot{}, nil
	}

	meta, err := u.metadata.FindMetadata(ctx, required)
	if err != nil {
		return nil, fmt.Errorf("load symbol metadata: %w", err)
	}

	tickers := make([]string, 0, len(required))
	seen := make(map[string]struct{}, len(required))
	for _, s := range required {
		t := u.cfg.Tickers.Resolve(s)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tickers = append(tickers, t)
	}

	if u.limiter != nil {
		if err := u.limiter.WaitIfNeeded(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrProviderUnavailable, err)
		}
	}
	series, err := u.provider.FetchSeries(ctx, tickers, u.cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrProviderUnavailable, err)
	}

	snap := make(entity.Snapshot, len(required))
	for _, sym := range required {
		ticker := u.cfg.Tickers.Resolve(sym)
		md, ok := meta[sym]
		if !ok {
			md = entity.DefaultMetadata(sym)
		}
		entry, ok := priceEntry(sym, series[ticker], md)
		if !ok {
			slog.Warn("no usable quote, publishing degenerate entry", "symbol", sym, "ticker", ticker)
		}
		snap[sym] = entry
	}
	return snap, nil
}

// requiredSymbols returns visible ∪ held, visible first, without duplicates.
func requiredSymbols(visible, held []string) []string {
	out := make([]string, 0, len(visible)+len(held))
	seen := make(map[string]struct{}, len(visible)+len(held))
	for _, group := range [][]string{visible, held} {
		for _, s := range group {
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
