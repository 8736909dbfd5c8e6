package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ScrapItem represents a catalog entry for tradable scrap metal. Documents
// snapshot the price into their line items, so later price changes never
// retroactively alter existing documents.
type ScrapItem struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Name         string             `gorm:"size:255;not null" json:"name"`
	NameArabic   *string            `gorm:"size:255" json:"name_arabic,omitempty"`
	Category     enum.MetalCategory `gorm:"size:50;default:'mixed'" json:"category"`
	Unit         string             `gorm:"size:20;default:'kg'" json:"unit"`
	PricePerUnit decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"price_per_unit"`
	AvgCostPrice *decimal.Decimal   `gorm:"type:decimal(15,2)" json:"avg_cost_price,omitempty"`
	CurrentStock decimal.Decimal    `gorm:"type:decimal(15,3);default:0" json:"current_stock"`
	MinStock     *decimal.Decimal   `gorm:"type:decimal(15,3)" json:"min_stock,omitempty"`
	IsActive     bool               `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new scrap item
func (i *ScrapItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ScrapItem model
func (ScrapItem) TableName() string {
	return "scrap_items"
}

// IsLowStock reports whether the current stock has fallen to or below the
// configured minimum.
func (i *ScrapItem) IsLowStock() bool {
	if i.MinStock == nil {
		return false
	}
	return i.CurrentStock.LessThanOrEqual(*i.MinStock)
}
