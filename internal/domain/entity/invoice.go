package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"gorm.io/gorm"
)

// Invoice is a sales invoice with payment terms and a due date.
type Invoice struct {
	DocumentBase
	DueDate      time.Time `gorm:"type:date;not null" json:"due_date"`
	PaymentTerms string    `gorm:"size:255" json:"payment_terms"`

	// Relationships
	Customer *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []DocumentItem `gorm:"polymorphic:Document;polymorphicValue:invoices" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// Validate checks the invoice's variant-specific rules.
func (i *Invoice) Validate() error {
	if i.DueDate.Before(i.IssueDate) {
		return apperror.NewBadRequestError("Due date cannot be before issue date")
	}
	return nil
}

// IsOverdue reports the derived overdue view at the given instant.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.overdueAgainst(i.DueDate, now)
}

// EInvoice is an invoice subject to tax-authority clearance. The ZATCA
// compliance state is layered on top of the base status: the document must be
// approved before submission and cannot be sent until clearance is approved.
type EInvoice struct {
	DocumentBase
	DueDate              time.Time             `gorm:"type:date;not null" json:"due_date"`
	PaymentTerms         string                `gorm:"size:255" json:"payment_terms"`
	ZATCAStatus          enum.ComplianceStatus `gorm:"default:0;column:zatca_status" json:"zatca_status"`
	ZATCAReference       *string               `gorm:"size:255;column:zatca_reference" json:"zatca_reference,omitempty"`
	ZATCAHash            *string               `gorm:"size:255;column:zatca_hash" json:"zatca_hash,omitempty"`
	ZATCARejectionReason *string               `gorm:"type:text;column:zatca_rejection_reason" json:"zatca_rejection_reason,omitempty"`
	SubmittedAt          *time.Time            `json:"submitted_at,omitempty"`

	// Relationships
	Customer *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []DocumentItem `gorm:"polymorphic:Document;polymorphicValue:einvoices" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new e-invoice
func (e *EInvoice) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the EInvoice model
func (EInvoice) TableName() string {
	return "einvoices"
}

// Validate checks the e-invoice's variant-specific rules.
func (e *EInvoice) Validate() error {
	if e.DueDate.Before(e.IssueDate) {
		return apperror.NewBadRequestError("Due date cannot be before issue date")
	}
	return nil
}

// IsOverdue reports the derived overdue view at the given instant.
func (e *EInvoice) IsOverdue(now time.Time) bool {
	return e.overdueAgainst(e.DueDate, now)
}

// Transition shadows the base lifecycle to enforce the compliance gate: an
// e-invoice cannot reach sent until ZATCA clearance is approved.
func (e *EInvoice) Transition(target enum.DocumentStatus, now time.Time) error {
	if target == enum.DocumentStatusSent && e.ZATCAStatus != enum.ComplianceStatusApproved {
		return apperror.NewInvalidTransitionError(
			e.Status.String()+" (zatca "+e.ZATCAStatus.String()+")",
			target.String(),
		)
	}
	return e.DocumentBase.Transition(target, now)
}

// RecordSubmission moves the compliance state from pending to submitted,
// storing the reference and content hash supplied by the tax authority. A
// missing reference fails with ComplianceSubmissionIncomplete and leaves the
// state untouched.
func (e *EInvoice) RecordSubmission(reference, hash string, now time.Time) error {
	if e.Status != enum.DocumentStatusApproved {
		return apperror.NewInvalidTransitionError(e.Status.String(), "zatca submission")
	}
	if e.ZATCAStatus != enum.ComplianceStatusPending {
		return apperror.NewInvalidTransitionError("zatca "+e.ZATCAStatus.String(), "zatca "+enum.ComplianceStatusSubmitted.String())
	}
	if reference == "" {
		return apperror.NewComplianceIncompleteError()
	}
	e.ZATCAStatus = enum.ComplianceStatusSubmitted
	e.ZATCAReference = &reference
	if hash != "" {
		e.ZATCAHash = &hash
	}
	submitted := now
	e.SubmittedAt = &submitted
	e.ZATCARejectionReason = nil
	e.Touch(now)
	return nil
}

// ApproveCompliance moves submitted to approved, making the e-invoice
// eligible to proceed toward sent.
func (e *EInvoice) ApproveCompliance(now time.Time) error {
	if e.ZATCAStatus != enum.ComplianceStatusSubmitted {
		return apperror.NewInvalidTransitionError("zatca "+e.ZATCAStatus.String(), "zatca "+enum.ComplianceStatusApproved.String())
	}
	e.ZATCAStatus = enum.ComplianceStatusApproved
	e.Touch(now)
	return nil
}

// RejectCompliance moves submitted to rejected with the authority's reason.
// The caller must either retry the submission or cancel the document.
func (e *EInvoice) RejectCompliance(reason string, now time.Time) error {
	if e.ZATCAStatus != enum.ComplianceStatusSubmitted {
		return apperror.NewInvalidTransitionError("zatca "+e.ZATCAStatus.String(), "zatca "+enum.ComplianceStatusRejected.String())
	}
	e.ZATCAStatus = enum.ComplianceStatusRejected
	if reason != "" {
		e.ZATCARejectionReason = &reason
	}
	e.Touch(now)
	return nil
}

// ResetCompliance returns a rejected submission to pending for a retry.
func (e *EInvoice) ResetCompliance(now time.Time) error {
	if e.ZATCAStatus != enum.ComplianceStatusRejected {
		return apperror.NewInvalidTransitionError("zatca "+e.ZATCAStatus.String(), "zatca "+enum.ComplianceStatusPending.String())
	}
	e.ZATCAStatus = enum.ComplianceStatusPending
	e.ZATCAReference = nil
	e.ZATCAHash = nil
	e.SubmittedAt = nil
	e.Touch(now)
	return nil
}
