package adapters

import (
	"time"

	"papertrade_backend/internal/feature/ledger/domain/entity"
)

// AccountModel is the GORM model for the accounts table.
type AccountModel struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    string          `gorm:"size:32;not null;uniqueIndex"`
	Balance   float64         `gorm:"not null"`
	Initial   float64         `gorm:"not null"`
	Positions []PositionModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}

// PositionModel is the GORM model for the positions table.
type PositionModel struct {
	ID        uint    `gorm:"primaryKey"`
	AccountID uint    `gorm:"not null;uniqueIndex:idx_position_account_symbol"`
	Symbol    string  `gorm:"size:20;not null;uniqueIndex:idx_position_account_symbol;index"`
	Quantity  float64 `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (PositionModel) TableName() string {
	return "positions"
}

// ToEntity converts the GORM model (with positions preloaded) to a domain entity.
func (m *AccountModel) ToEntity() *entity.Account {
	portfolio := make(map[string]float64, len(m.Positions))
	for _, p := range m.Positions {
		portfolio[p.Symbol] = p.Quantity
	}
	return &entity.Account{
		ID:        m.UserID,
		Balance:   m.Balance,
		Portfolio: portfolio,
		Initial:   m.Initial,
	}
}

// positionModels converts a portfolio to rows owned by accountID.
// Non-positive quantities are never stored.
func positionModels(accountID uint, portfolio map[string]float64) []PositionModel {
	out := make([]PositionModel, 0, len(portfolio))
	for sym, qty := range portfolio {
		if qty <= 0 {
			continue
		}
		out = append(out, PositionModel{AccountID: accountID, Symbol: sym, Quantity: qty})
	}
	return out
}
