// Package adapters はmarketフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"papertrade_backend/internal/feature/market/domain/entity"
	"papertrade_backend/internal/feature/market/usecase"
)

// symbolGorm は盤面構成（表示銘柄と並び順）と銘柄メタデータを同じsymbolsテーブルで管理します。
type symbolGorm struct {
	db *gorm.DB
}

var (
	_ usecase.MarketConfigRepository = (*symbolGorm)(nil)
	_ usecase.MetadataRepository     = (*symbolGorm)(nil)
)

// NewSymbolRepository は指定されたDB接続でsymbolGormの新しいインスタンスを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolGorm {
	return &symbolGorm{db: db}
}

// LoadVisible はsort_key順に表示中の銘柄コードを返します。
func (r *symbolGorm) LoadVisible(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&SymbolModel{}).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Order("id ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// SaveVisible は表示銘柄の集合と並び順を1トランザクションで置き換えます。
// メタデータ未登録のコードはデフォルトメタデータで行を作成します。
func (r *symbolGorm) SaveVisible(ctx context.Context, codes []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&SymbolModel{}).
			Where("is_active = ?", true).
			Updates(map[string]any{"is_active": false, "sort_key": 0}).Error; err != nil {
			return err
		}

		for i, code := range codes {
			res := tx.Model(&SymbolModel{}).
				Where("code = ?", code).
				Updates(map[string]any{"is_active": true, "sort_key": i})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				continue
			}
			m := SymbolModelFromMetadata(entity.DefaultMetadata(code))
			m.IsActive = true
			m.SortKey = i
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindMetadata は指定コードのうち登録済みのメタデータを返します。
func (r *symbolGorm) FindMetadata(ctx context.Context, codes []string) (map[string]entity.Metadata, error) {
	out := make(map[string]entity.Metadata, len(codes))
	if len(codes) == 0 {
		return out, nil
	}

	var models []SymbolModel
	if err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&models).Error; err != nil {
		return nil, err
	}
	for i := range models {
		out[models[i].Code] = models[i].ToMetadata()
	}
	return out, nil
}

// SaveMetadata は銘柄メタデータをupsertします。表示状態と並び順には触れません。
func (r *symbolGorm) SaveMetadata(ctx context.Context, md entity.Metadata) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "sector", "volatility", "updated_at"}),
		}).
		Create(SymbolModelFromMetadata(md)).Error
}
