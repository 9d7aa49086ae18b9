package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"papertrade_backend/internal/feature/market/domain/entity"
	"papertrade_backend/internal/shared/apperr"
	"papertrade_backend/internal/shared/numeric"
	"papertrade_backend/internal/shared/ratelimiter"
)

// SnapshotRefresher はスナップショット取得のインターフェースです（銘柄追加後の強制更新に使用）。
type SnapshotRefresher interface {
	GetSnapshot(ctx context.Context, force bool) (entity.Snapshot, error)
}

// AdmissionConfig は銘柄追加時の検証ポリシーを保持します。
type AdmissionConfig struct {
	Tickers TickerMap
	Window  int
	// DisallowedAssetTypes はプロバイダーが報告する銘柄種別のうち、追加を拒否するものです（大文字小文字を区別しない）。
	DisallowedAssetTypes []string
}

// AdmissionUsecase は盤面（Market Configuration）への銘柄追加・削除を扱います。
type AdmissionUsecase struct {
	cfg       AdmissionConfig
	config    MarketConfigRepository
	metadata  MetadataRepository
	provider  QuoteProvider
	snapshots SnapshotRefresher
	limiter   ratelimiter.RateLimiterInterface

	// 盤面の読み込み→変更→保存を直列化する
	mu sync.Mutex
}

// NewAdmissionUsecase は新しい AdmissionUsecase を作成します。limiter は nil でも構いません。
func NewAdmissionUsecase(
	cfg AdmissionConfig,
	config MarketConfigRepository,
	metadata MetadataRepository,
	provider QuoteProvider,
	snapshots SnapshotRefresher,
	limiter ratelimiter.RateLimiterInterface,
) *AdmissionUsecase {
	if cfg.Tickers == nil {
		cfg.Tickers = DefaultTickerOverrides
	}
	if cfg.Window < 2 {
		cfg.Window = DefaultWindow
	}
	return &AdmissionUsecase{
		cfg:       cfg,
		config:    config,
		metadata:  metadata,
		provider:  provider,
		snapshots: snapshots,
		limiter:   limiter,
	}
}

// Admit は銘柄を検証して盤面の先頭に追加し、スナップショットを強制更新します。
//   - 既に盤面にある場合は ErrDuplicate
//   - 直近の価格履歴が取得できない、または最終終値が無効な場合は ErrInvalidAsset
//   - 種別が許可されていない場合は ErrInvalidAsset
//
// メタデータは初回追加時に一度だけ取得し、以降は凍結されます。
func (u *AdmissionUsecase) Admit(ctx context.Context, raw string) (*entity.Metadata, error) {
	symbol, err := NormalizeSymbol(raw)
	if err != nil {
		return nil, err
	}

	md, err := u.admitLocked(ctx, symbol)
	if err != nil {
		return nil, err
	}

	// 新しい銘柄をすぐに価格付けする。失敗しても追加自体は確定済み
	if _, err := u.snapshots.GetSnapshot(ctx, true); err != nil {
		slog.Warn("snapshot refresh after admission failed", "symbol", symbol, "error", err)
	}
	return md, nil
}

func (u *AdmissionUsecase) admitLocked(ctx context.Context, symbol string) (*entity.Metadata, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	visible, err := u.config.LoadVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("load market configuration: %w", err)
	}
	if slices.Contains(visible, symbol) {
		return nil, fmt.Errorf("%w: symbol %s is already on the board", apperr.ErrDuplicate, symbol)
	}

	ticker := u.cfg.Tickers.Resolve(symbol)
	series, err := u.fetchSeries(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if err := u.validateSeries(symbol, ticker, series); err != nil {
		return nil, err
	}

	existing, err := u.metadata.FindMetadata(ctx, []string{symbol})
	if err != nil {
		return nil, fmt.Errorf("load symbol metadata: %w", err)
	}
	md, frozen := existing[symbol]
	if !frozen {
		md = u.describe(ctx, symbol, ticker)
		if err := u.metadata.SaveMetadata(ctx, md); err != nil {
			return nil, fmt.Errorf("save symbol metadata: %w", err)
		}
	}

	next := make([]string, 0, len(visible)+1)
	next = append(next, symbol)
	next = append(next, visible...)
	if err := u.config.SaveVisible(ctx, next); err != nil {
		return nil, fmt.Errorf("save market configuration: %w", err)
	}

	slog.Info("symbol admitted", "symbol", symbol, "ticker", ticker, "name", md.Name, "sector", md.Sector)
	return &md, nil
}

func (u *AdmissionUsecase) fetchSeries(ctx context.Context, ticker string) (entity.Series, error) {
	if u.limiter != nil {
		if err := u.limiter.WaitIfNeeded(ctx); err != nil {
			return entity.Series{}, fmt.Errorf("%w: %v", apperr.ErrProviderUnavailable, err)
		}
	}
	res, err := u.provider.FetchSeries(ctx, []string{ticker}, u.cfg.Window)
	if err != nil {
		return entity.Series{}, fmt.Errorf("%w: %v", apperr.ErrProviderUnavailable, err)
	}
	return res[ticker], nil
}

func (u *AdmissionUsecase) validateSeries(symbol, ticker string, series entity.Series) error {
	if len(series.Bars) == 0 {
		return fmt.Errorf("%w: no quote data for %s (ticker %s)", apperr.ErrInvalidAsset, symbol, ticker)
	}
	last := numeric.Sanitize(series.Bars[len(series.Bars)-1].Close)
	if last <= 0 {
		return fmt.Errorf("%w: last close for %s is not a valid price", apperr.ErrInvalidAsset, symbol)
	}
	for _, t := range u.cfg.DisallowedAssetTypes {
		if t != "" && strings.EqualFold(strings.TrimSpace(t), series.AssetType) {
			return fmt.Errorf("%w: asset type %q of %s is not allowed", apperr.ErrInvalidAsset, series.AssetType, symbol)
		}
	}
	return nil
}

// describe fetches descriptive fields, falling back to defaults for anything
// the provider does not report.
func (u *AdmissionUsecase) describe(ctx context.Context, symbol, ticker string) entity.Metadata {
	md := entity.DefaultMetadata(symbol)

	if u.limiter != nil {
		if err := u.limiter.WaitIfNeeded(ctx); err != nil {
			slog.Warn("profile lookup skipped", "symbol", symbol, "error", err)
			return md
		}
	}
	p, err := u.provider.FetchProfile(ctx, ticker)
	if err != nil {
		slog.Warn("profile lookup failed, using default metadata", "symbol", symbol, "ticker", ticker, "error", err)
		return md
	}
	if p.Name != "" {
		md.Name = p.Name
	}
	if p.Sector != "" {
		md.Sector = p.Sector
	}
	if beta := numeric.Sanitize(p.Beta); beta > 0 {
		md.Volatility = beta
	}
	return md
}

// Delist は銘柄を盤面から外します。メタデータと保有ポジションはそのまま残ります。
func (u *AdmissionUsecase) Delist(ctx context.Context, raw string) error {
	symbol, err := NormalizeSymbol(raw)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	visible, err := u.config.LoadVisible(ctx)
	if err != nil {
		return fmt.Errorf("load market configuration: %w", err)
	}
	idx := slices.Index(visible, symbol)
	if idx < 0 {
		return fmt.Errorf("%w: symbol %s is not on the board", apperr.ErrNotFound, symbol)
	}
	next := slices.Delete(slices.Clone(visible), idx, idx+1)
	if err := u.config.SaveVisible(ctx, next); err != nil {
		return fmt.Errorf("save market configuration: %w", err)
	}

	slog.Info("symbol delisted", "symbol", symbol)
	return nil
}
