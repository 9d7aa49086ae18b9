// Package adapters はledgerフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"papertrade_backend/internal/feature/ledger/domain/entity"
	"papertrade_backend/internal/feature/ledger/usecase"
	marketusecase "papertrade_backend/internal/feature/market/usecase"
	"papertrade_backend/internal/shared/apperr"
)

// accountGorm は口座と保有ポジションをaccounts/positionsテーブルで管理します。
// Saveは1トランザクションで口座全体（残高とポジション）を置き換えます。
type accountGorm struct {
	db *gorm.DB
}

var (
	_ usecase.AccountRepository     = (*accountGorm)(nil)
	_ marketusecase.HoldingsReader = (*accountGorm)(nil)
)

// NewAccountRepository は指定されたDB接続でaccountGormの新しいインスタンスを生成します。
func NewAccountRepository(db *gorm.DB) *accountGorm {
	return &accountGorm{db: db}
}

// Find はユーザーIDで口座を取得します。
func (r *accountGorm) Find(ctx context.Context, id string) (*entity.Account, error) {
	var m AccountModel
	if err := r.db.WithContext(ctx).
		Preload("Positions").
		Where("user_id = ?", id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// Create は新しい口座を作成します。既に存在する場合は ErrDuplicate を返します。
func (r *accountGorm) Create(ctx context.Context, acct *entity.Account) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&AccountModel{}).Where("user_id = ?", acct.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: user %s", apperr.ErrDuplicate, acct.ID)
		}

		m := &AccountModel{UserID: acct.ID, Balance: acct.Balance, Initial: acct.Initial}
		if err := tx.Omit("Positions").Create(m).Error; err != nil {
			return err
		}
		if rows := positionModels(m.ID, acct.Portfolio); len(rows) > 0 {
			return tx.Create(&rows).Error
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: user %s", apperr.ErrDuplicate, acct.ID)
	}
	return err
}

// Save は口座の残高とポジションを置き換えます。初期資金は変更しません。
func (r *accountGorm) Save(ctx context.Context, acct *entity.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m AccountModel
		if err := tx.Select("id").Where("user_id = ?", acct.ID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", apperr.ErrNotFound, acct.ID)
			}
			return err
		}

		if err := tx.Model(&AccountModel{}).
			Where("id = ?", m.ID).
			Update("balance", acct.Balance).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", m.ID).Delete(&PositionModel{}).Error; err != nil {
			return err
		}
		if rows := positionModels(m.ID, acct.Portfolio); len(rows) > 0 {
			return tx.Create(&rows).Error
		}
		return nil
	})
}

// List は作成順にすべての口座を返します。
func (r *accountGorm) List(ctx context.Context) ([]*entity.Account, error) {
	var models []AccountModel
	if err := r.db.WithContext(ctx).
		Preload("Positions").
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Account, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}

// HeldSymbols はいずれかの口座が保有している銘柄コードを返します。
// 盤面から外れた銘柄も保有者がいる限り価格付けの対象に含めるために使います。
func (r *accountGorm) HeldSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := r.db.WithContext(ctx).
		Model(&PositionModel{}).
		Where("quantity > ?", 0).
		Distinct().
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}
