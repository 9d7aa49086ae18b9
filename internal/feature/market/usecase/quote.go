package usecase

import (
	"papertrade_backend/internal/feature/market/domain/entity"
	"papertrade_backend/internal/shared/numeric"
)

// latestCloses はバー列を新しい順に走査し、最後の有効な終値（current）と
// その直前の有効な終値（reference）を返します。
// 有効な終値とは、サニタイズ後に正の値であるものを指します。
// 欠損バーを挟んでも直前の有効値を参照するため、固定の「前日終値」フィールドには依存しません。
func latestCloses(bars []entity.Bar) (current, reference float64, ok bool) {
	found := false
	for i := len(bars) - 1; i >= 0; i-- {
		c := numeric.Sanitize(bars[i].Close)
		if c <= 0 {
			continue
		}
		if !found {
			current = c
			found = true
			continue
		}
		reference = c
		break
	}
	return current, reference, found
}

// priceEntry builds the snapshot entry of one symbol from its quote series.
// The second return value is false when the series carries no usable price,
// in which case the degenerate entry is returned.
func priceEntry(symbol string, series entity.Series, md entity.Metadata) (entity.PriceEntry, bool) {
	current, reference, ok := latestCloses(series.Bars)
	if !ok {
		return entity.DegenerateEntry(symbol), false
	}
	return entity.PriceEntry{
		Name:          md.Name,
		Price:         numeric.Round2(current),
		ChangePercent: numeric.Round2(numeric.PercentChange(current, reference)),
		Volatility:    numeric.Sanitize(md.Volatility),
		Sector:        md.Sector,
	}, true
}
