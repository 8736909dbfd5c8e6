package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"gorm.io/gorm"
)

// Quotation is a priced offer with a validity window. Converting it to an
// invoice is one-way: the link is recorded once and the quotation's items
// become immutable afterwards regardless of status.
type Quotation struct {
	DocumentBase
	ValidUntil         time.Time  `gorm:"type:date;not null" json:"valid_until"`
	Terms              string     `gorm:"type:text" json:"terms"`
	ConvertedToInvoice bool       `gorm:"default:false" json:"converted_to_invoice"`
	InvoiceID          *uuid.UUID `gorm:"type:uuid" json:"invoice_id,omitempty"`

	// Relationships
	Customer *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []DocumentItem `gorm:"polymorphic:Document;polymorphicValue:quotations" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quotation
func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quotation model
func (Quotation) TableName() string {
	return "quotations"
}

// Validate checks the quotation's variant-specific rules.
func (q *Quotation) Validate() error {
	if q.ValidUntil.Before(q.IssueDate) {
		return apperror.NewBadRequestError("Validity date cannot be before issue date")
	}
	return nil
}

// IsExpired reports whether the validity window has passed.
func (q *Quotation) IsExpired(now time.Time) bool {
	return now.After(q.ValidUntil)
}

// CheckEditable shadows the base guard: a converted quotation is immutable
// regardless of its own status.
func (q *Quotation) CheckEditable() error {
	if q.ConvertedToInvoice {
		return apperror.NewDocumentLockedError("converted")
	}
	return q.DocumentBase.CheckEditable()
}

// MarkConverted records the one-way conversion to an invoice. A second
// conversion attempt fails.
func (q *Quotation) MarkConverted(invoiceID uuid.UUID, now time.Time) error {
	if q.ConvertedToInvoice {
		return apperror.NewQuotationConvertedError()
	}
	if q.Status == enum.DocumentStatusCancelled {
		return apperror.NewInvalidTransitionError(q.Status.String(), "converted")
	}
	q.ConvertedToInvoice = true
	q.InvoiceID = &invoiceID
	q.Touch(now)
	return nil
}
