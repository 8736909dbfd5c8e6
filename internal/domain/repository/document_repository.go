package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/pkg/pagination"
)

// DocumentFilterParams contains the filtering parameters shared by all
// document list queries
type DocumentFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.DocumentStatus
	CustomerID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// Document writes carry the caller's expected updated_at; implementations
// must refuse the write with apperror.ErrStaleWrite when the stored version
// no longer matches.

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.Invoice, int64, error)
	NextSequence(ctx context.Context) (int, error)
}

// EInvoiceRepository defines the interface for e-invoice data operations
type EInvoiceRepository interface {
	Create(ctx context.Context, einvoice *entity.EInvoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EInvoice, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.EInvoice, error)
	Update(ctx context.Context, einvoice *entity.EInvoice, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.EInvoice, int64, error)
	NextSequence(ctx context.Context) (int, error)
}

// ReceiptVoucherRepository defines the interface for receipt voucher data operations
type ReceiptVoucherRepository interface {
	Create(ctx context.Context, voucher *entity.ReceiptVoucher) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ReceiptVoucher, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.ReceiptVoucher, error)
	Update(ctx context.Context, voucher *entity.ReceiptVoucher, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.ReceiptVoucher, int64, error)
	NextSequence(ctx context.Context) (int, error)
}

// QuotationRepository defines the interface for quotation data operations
type QuotationRepository interface {
	Create(ctx context.Context, quotation *entity.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	Update(ctx context.Context, quotation *entity.Quotation, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.Quotation, int64, error)
	NextSequence(ctx context.Context) (int, error)
}

// DocumentItemRepository defines the interface for line item data operations
type DocumentItemRepository interface {
	Create(ctx context.Context, item *entity.DocumentItem) error
	CreateBatch(ctx context.Context, items []entity.DocumentItem) error
	Update(ctx context.Context, item *entity.DocumentItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DocumentItem, error)
	GetByDocument(ctx context.Context, docType enum.DocumentType, documentID uuid.UUID) ([]entity.DocumentItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDocument(ctx context.Context, docType enum.DocumentType, documentID uuid.UUID) error
}
