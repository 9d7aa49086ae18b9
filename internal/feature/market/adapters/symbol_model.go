package adapters

import (
	"time"

	"papertrade_backend/internal/feature/market/domain/entity"
)

// SymbolModel is the GORM model for the symbols table.
// A row is created on first admission and never deleted; delisting only clears IsActive.
type SymbolModel struct {
	ID         uint      `gorm:"primaryKey"`
	Code       string    `gorm:"size:20;not null;uniqueIndex"`
	Name       string    `gorm:"size:255;not null"`
	Sector     string    `gorm:"size:100;not null"`
	Volatility float64   `gorm:"not null"`
	IsActive   bool      `gorm:"not null;index"` // no default tag: gorm would skip inserting false
	SortKey    int       `gorm:"not null;default:0"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (SymbolModel) TableName() string {
	return "symbols"
}

// ToMetadata converts the GORM model to domain metadata.
func (m *SymbolModel) ToMetadata() entity.Metadata {
	return entity.Metadata{
		Symbol:     m.Code,
		Name:       m.Name,
		Sector:     m.Sector,
		Volatility: m.Volatility,
	}
}

// SymbolModelFromMetadata converts domain metadata to an inactive GORM model.
func SymbolModelFromMetadata(md entity.Metadata) *SymbolModel {
	return &SymbolModel{
		Code:       md.Symbol,
		Name:       md.Name,
		Sector:     md.Sector,
		Volatility: md.Volatility,
	}
}
