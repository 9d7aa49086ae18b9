package usecase

import (
	"context"
	"fmt"

	"papertrade_backend/internal/feature/market/domain/entity"
)

// SnapshotReader provides the current price snapshot.
type SnapshotReader interface {
	GetSnapshot(ctx context.Context, force bool) (entity.Snapshot, error)
}

// BoardItem is a visible symbol with its current price entry.
type BoardItem struct {
	Symbol string
	entity.PriceEntry
}

// BoardUsecase serves the priced board and the ordered symbol list.
type BoardUsecase struct {
	config    MarketConfigRepository
	metadata  MetadataRepository
	snapshots SnapshotReader
}

// NewBoardUsecase creates a new BoardUsecase.
func NewBoardUsecase(config MarketConfigRepository, metadata MetadataRepository, snapshots SnapshotReader) *BoardUsecase {
	return &BoardUsecase{config: config, metadata: metadata, snapshots: snapshots}
}

// ListBoard returns the visible symbols in display order with their prices.
// Held-but-delisted symbols are priced by the engine but not shown here.
func (u *BoardUsecase) ListBoard(ctx context.Context) ([]BoardItem, error) {
	visible, err := u.config.LoadVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("load market configuration: %w", err)
	}
	snap, err := u.snapshots.GetSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	out := make([]BoardItem, 0, len(visible))
	for _, sym := range visible {
		entry, ok := snap[sym]
		if !ok {
			entry = entity.DegenerateEntry(sym)
		}
		out = append(out, BoardItem{Symbol: sym, PriceEntry: entry})
	}
	return out, nil
}

// ListSymbols returns the visible symbols in display order with their metadata.
func (u *BoardUsecase) ListSymbols(ctx context.Context) ([]entity.Metadata, error) {
	visible, err := u.config.LoadVisible(ctx)
	if err != nil {
		return nil, err
	}
	meta, err := u.metadata.FindMetadata(ctx, visible)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Metadata, 0, len(visible))
	for _, sym := range visible {
		md, ok := meta[sym]
		if !ok {
			md = entity.DefaultMetadata(sym)
		}
		out = append(out, md)
	}
	return out, nil
}
