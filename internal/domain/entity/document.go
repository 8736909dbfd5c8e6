package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/scrapdocs/scrapdocs-api/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocumentBase holds the identity, party reference, totals and lifecycle
// status shared by every document variant. The totals columns are always the
// computed function of the current line items; they are refreshed through
// Recalculate and never assigned directly. Status only changes through
// Transition.
type DocumentBase struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Number             string              `gorm:"size:100;uniqueIndex;not null" json:"number"`
	IssueDate          time.Time           `gorm:"type:date;not null" json:"issue_date"`
	CustomerID         *uuid.UUID          `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName       string              `gorm:"size:255" json:"customer_name"`
	CustomerNameArabic string              `gorm:"size:255" json:"customer_name_arabic,omitempty"`
	Currency           string              `gorm:"size:10;default:'SAR'" json:"currency"`
	Notes              *string             `gorm:"type:text" json:"notes,omitempty"`
	Status             enum.DocumentStatus `gorm:"default:0" json:"status"`
	ItemCount          int                 `gorm:"default:0" json:"item_count"`
	Subtotal           decimal.Decimal     `gorm:"type:decimal(15,2);default:0" json:"subtotal"`
	TotalDiscount      decimal.Decimal     `gorm:"type:decimal(15,2);default:0" json:"total_discount"`
	VATAmount          decimal.Decimal     `gorm:"type:decimal(15,2);default:0" json:"vat_amount"`
	Total              decimal.Decimal     `gorm:"type:decimal(15,2);default:0" json:"total"`
	PaidAmount         decimal.Decimal     `gorm:"type:decimal(15,2);default:0" json:"paid_amount"`
	CreatedAt          time.Time           `json:"created_at"`
	// updated_at doubles as the optimistic-concurrency version token, so it
	// is set explicitly through Touch rather than by gorm.
	UpdatedAt time.Time      `gorm:"autoUpdateTime:false" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Editable reports whether line items may still be mutated. Only draft and
// pending documents are open for editing.
func (d *DocumentBase) Editable() bool {
	return d.Status == enum.DocumentStatusDraft || d.Status == enum.DocumentStatusPending
}

// CheckEditable returns a DocumentLocked error when line-item mutation is not
// permitted in the current status.
func (d *DocumentBase) CheckEditable() error {
	if !d.Editable() {
		return apperror.NewDocumentLockedError(d.Status.String())
	}
	return nil
}

// Transition validates and applies a status change according to the document
// lifecycle: draft -> pending -> approved -> sent -> paid, with cancellation
// allowed from any state except paid. Preconditions are checked against the
// document's own fields; any other combination fails with InvalidTransition.
func (d *DocumentBase) Transition(target enum.DocumentStatus, now time.Time) error {
	invalid := func() error {
		return apperror.NewInvalidTransitionError(d.Status.String(), target.String())
	}

	if target == enum.DocumentStatusCancelled {
		if d.Status == enum.DocumentStatusPaid || d.Status == enum.DocumentStatusCancelled {
			return invalid()
		}
		d.Status = enum.DocumentStatusCancelled
		d.Touch(now)
		return nil
	}

	switch d.Status {
	case enum.DocumentStatusDraft:
		if target != enum.DocumentStatusPending {
			return invalid()
		}
		if d.ItemCount < 1 || d.CustomerID == nil {
			return invalid()
		}
	case enum.DocumentStatusPending:
		if target != enum.DocumentStatusApproved {
			return invalid()
		}
		if d.Subtotal.IsNegative() || d.Total.IsNegative() {
			return invalid()
		}
	case enum.DocumentStatusApproved:
		if target != enum.DocumentStatusSent {
			return invalid()
		}
		if d.Number == "" {
			return invalid()
		}
	case enum.DocumentStatusSent:
		if target != enum.DocumentStatusPaid {
			return invalid()
		}
		if d.PaidAmount.LessThan(d.Total) {
			return invalid()
		}
	default:
		return invalid()
	}

	d.Status = target
	d.Touch(now)
	return nil
}

// ApplyPayment records a payment applied by an external collaborator.
// It only accumulates paid_amount; moving to the paid status still goes
// through Transition.
func (d *DocumentBase) ApplyPayment(amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return apperror.NewBadRequestError("Payment amount must be positive")
	}
	d.PaidAmount = d.PaidAmount.Add(amount)
	d.Touch(now)
	return nil
}

// Recalculate recomputes each line item and folds the results into the
// document totals. It runs synchronously on every item mutation; an empty
// item list yields all-zero totals, which is valid for a draft.
func (d *DocumentBase) Recalculate(items []DocumentItem, now time.Time) error {
	lines := make([]money.LineAmounts, 0, len(items))
	discounts := make([]decimal.Decimal, 0, len(items))
	for i := range items {
		amounts, err := items[i].Compute()
		if err != nil {
			return err
		}
		lines = append(lines, amounts)
		discounts = append(discounts, items[i].Discount)
	}

	totals := money.Aggregate(lines, discounts)
	d.Subtotal = totals.Subtotal
	d.TotalDiscount = totals.TotalDiscount
	d.VATAmount = totals.VATAmount
	d.Total = totals.Total
	d.ItemCount = len(items)
	d.Touch(now)
	return nil
}

// Touch refreshes updated_at, keeping it monotonically non-decreasing.
func (d *DocumentBase) Touch(now time.Time) {
	if now.After(d.UpdatedAt) {
		d.UpdatedAt = now
	}
}

// Outstanding returns the unpaid balance.
func (d *DocumentBase) Outstanding() decimal.Decimal {
	return d.Total.Sub(d.PaidAmount)
}

// overdueAgainst reports the derived overdue view: an approved or sent
// document past its due date that is not fully paid. Computed on read, never
// persisted.
func (d *DocumentBase) overdueAgainst(dueDate, now time.Time) bool {
	if d.Status != enum.DocumentStatusSent && d.Status != enum.DocumentStatusApproved {
		return false
	}
	return now.After(dueDate) && d.PaidAmount.LessThan(d.Total)
}

// SnapshotCustomer caches the party's display names on the document. The
// cached copy is display-only and never authoritative.
func (d *DocumentBase) SnapshotCustomer(c *Customer) {
	if c == nil {
		return
	}
	id := c.ID
	d.CustomerID = &id
	d.CustomerName = c.Name
	if c.NameArabic != nil {
		d.CustomerNameArabic = *c.NameArabic
	}
}

// DocumentItem is a priced snapshot of a catalog item owned by exactly one
// document. The derived amount columns are populated by Compute.
type DocumentItem struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	DocumentID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"document_id"`
	DocumentType enum.DocumentType `gorm:"size:50;not null;index" json:"document_type"`
	ItemID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"item_id"`
	Description  string            `gorm:"size:500" json:"description"`
	Quantity     decimal.Decimal   `gorm:"type:decimal(15,3);not null" json:"quantity"`
	UnitPrice    decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Discount     decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"discount"`
	VATRate      decimal.Decimal   `gorm:"type:decimal(6,4);default:0" json:"vat_rate"`
	NetAmount    decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"net_amount"`
	VATAmount    decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"vat_amount"`
	Total        decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"total"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	Item *ScrapItem `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// BeforeCreate generates a UUID before creating a new document item
func (i *DocumentItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DocumentItem model
func (DocumentItem) TableName() string {
	return "document_items"
}

// Compute recalculates the derived amounts from quantity, unit price,
// discount and VAT rate. Calculation failures surface as InvalidLineItem.
func (i *DocumentItem) Compute() (money.LineAmounts, error) {
	amounts, err := money.ComputeLine(money.Line{
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
		Discount:  i.Discount,
		VATRate:   i.VATRate,
	})
	if err != nil {
		return money.LineAmounts{}, apperror.NewInvalidLineItemError(err.Error())
	}
	i.NetAmount = amounts.Net
	i.VATAmount = amounts.VAT
	i.Total = amounts.Total
	return amounts, nil
}
