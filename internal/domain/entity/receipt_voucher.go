package entity

import (
	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"gorm.io/gorm"
)

// ReceiptVoucher records money received on the spot. It has no due date and
// is effectively immediate, but still walks the shared document lifecycle so
// the audit trail stays uniform.
type ReceiptVoucher struct {
	DocumentBase
	PaymentMethod enum.PaymentMethod `gorm:"size:50;not null" json:"payment_method"`
	ReceivedFrom  string             `gorm:"size:255;not null" json:"received_from"`

	// Relationships
	Customer *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []DocumentItem `gorm:"polymorphic:Document;polymorphicValue:receipt_vouchers" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt voucher
func (r *ReceiptVoucher) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptVoucher model
func (ReceiptVoucher) TableName() string {
	return "receipt_vouchers"
}

// Validate checks the voucher's variant-specific rules.
func (r *ReceiptVoucher) Validate() error {
	if !r.PaymentMethod.Valid() {
		return apperror.NewBadRequestError("Unknown payment method: " + r.PaymentMethod.String())
	}
	if r.ReceivedFrom == "" {
		return apperror.NewBadRequestError("Received-from is required on a receipt voucher")
	}
	return nil
}
