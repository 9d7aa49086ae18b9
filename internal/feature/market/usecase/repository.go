// Package usecase implements market-data acquisition, symbol admission and
// the priced board.
package usecase

import (
	"context"

	"papertrade_backend/internal/feature/market/domain/entity"
)

// MarketConfigRepository abstracts the ordered set of symbols visible on the board.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketConfigRepository interface {
	// LoadVisible returns the visible symbol codes in display order.
	LoadVisible(ctx context.Context) ([]string, error)
	// SaveVisible replaces the whole visible set with codes, in display order.
	SaveVisible(ctx context.Context, codes []string) error
}

// MetadataRepository abstracts the static descriptive fields of admitted symbols.
type MetadataRepository interface {
	// FindMetadata returns the stored metadata of the given codes.
	// Codes without stored metadata are absent from the result.
	FindMetadata(ctx context.Context, codes []string) (map[string]entity.Metadata, error)
	// SaveMetadata stores metadata without changing the symbol's visibility.
	SaveMetadata(ctx context.Context, md entity.Metadata) error
}

// HoldingsReader reports every symbol currently held in any portfolio.
type HoldingsReader interface {
	HeldSymbols(ctx context.Context) ([]string, error)
}

// QuoteProvider は外部の株価データプロバイダーを抽象化します。
type QuoteProvider interface {
	// FetchSeries は複数ティッカーの直近window本の履歴を一括取得します。
	// レスポンスに含まれないティッカーは結果のmapに存在しません。
	FetchSeries(ctx context.Context, tickers []string, window int) (map[string]entity.Series, error)
	// FetchProfile はティッカーの名称・セクター・ベータを取得します。
	FetchProfile(ctx context.Context, ticker string) (entity.Profile, error)
}

// SnapshotMirror persists the last successful snapshot outside the process.
type SnapshotMirror interface {
	Save(ctx context.Context, snap entity.CachedSnapshot) error
	// Load returns nil without error when nothing has been mirrored yet.
	Load(ctx context.Context) (*entity.CachedSnapshot, error)
}
