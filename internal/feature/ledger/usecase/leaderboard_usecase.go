package usecase

import (
	"cmp"
	"context"
	"slices"

	"github.com/shopspring/decimal"

	ledger "papertrade_backend/internal/feature/ledger/domain/entity"
	market "papertrade_backend/internal/feature/market/domain/entity"
	"papertrade_backend/internal/shared/numeric"
)

var hundred = decimal.NewFromInt(100)

// LeaderboardUsecase は全口座の評価額とROIを計算して順位付けします。
type LeaderboardUsecase struct {
	repo   AccountRepository
	prices PriceSource
}

// NewLeaderboardUsecase は新しい LeaderboardUsecase を作成します。
func NewLeaderboardUsecase(repo AccountRepository, prices PriceSource) *LeaderboardUsecase {
	return &LeaderboardUsecase{repo: repo, prices: prices}
}

// Rank はROIの降順で全口座を返します。ROIが同じ場合はストアの登録順を保ちます。
// 読み取り専用で、口座を変更しません。
func (u *LeaderboardUsecase) Rank(ctx context.Context) ([]ledger.Ranking, error) {
	accounts, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := u.prices.GetSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	out := make([]ledger.Ranking, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, Valuate(a, snap))
	}
	slices.SortStableFunc(out, func(a, b ledger.Ranking) int {
		return cmp.Compare(b.ROI, a.ROI)
	})
	return out, nil
}

// Valuate は口座の評価額（現金＋保有銘柄の時価）とROIを計算します。
// スナップショットにない銘柄は価格0として扱います。
func Valuate(a *ledger.Account, snap market.Snapshot) ledger.Ranking {
	total := decimal.NewFromFloat(numeric.Sanitize(a.Balance))
	for sym, qty := range a.Portfolio {
		price := numeric.Sanitize(snap.Price(sym))
		total = total.Add(decimal.NewFromFloat(numeric.Sanitize(qty)).Mul(decimal.NewFromFloat(price)))
	}

	roi := decimal.Zero
	if initial := decimal.NewFromFloat(numeric.Sanitize(a.Initial)); !initial.IsZero() {
		roi = total.Sub(initial).Div(initial).Mul(hundred)
	}
	return ledger.Ranking{
		UserID: a.ID,
		Total:  total.Round(2).InexactFloat64(),
		ROI:    roi.Round(2).InexactFloat64(),
	}
}
