package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a trading partner referenced by documents. Documents
// cache the display name but the customer record stays authoritative.
type Customer struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	NameArabic  *string          `gorm:"size:255" json:"name_arabic,omitempty"`
	VATNumber   *string          `gorm:"size:50;column:vat_number" json:"vat_number,omitempty"`
	CRNumber    *string          `gorm:"size:50;column:cr_number" json:"cr_number,omitempty"`
	Country     string           `gorm:"size:100;default:'Saudi Arabia'" json:"country"`
	Phone       *string          `gorm:"size:50" json:"phone,omitempty"`
	Email       *string          `gorm:"size:255" json:"email,omitempty"`
	Address     *string          `gorm:"type:text" json:"address,omitempty"`
	CreditLimit *decimal.Decimal `gorm:"type:decimal(15,2)" json:"credit_limit,omitempty"`
	IsActive    bool             `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// DisplayName returns the Arabic name when present, falling back to the
// primary name.
func (c *Customer) DisplayName(arabic bool) string {
	if arabic && c.NameArabic != nil && *c.NameArabic != "" {
		return *c.NameArabic
	}
	return c.Name
}
