package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/scrapdocs/scrapdocs-api/pkg/pagination"
)

// QuotationService handles quotation-related operations
type QuotationService struct {
	quotationRepo repository.QuotationRepository
	invoiceRepo   repository.InvoiceRepository
	lineRepo      repository.DocumentItemRepository
	itemRepo      repository.ScrapItemRepository
	customerRepo  repository.CustomerRepository
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	invoiceRepo repository.InvoiceRepository,
	lineRepo repository.DocumentItemRepository,
	itemRepo repository.ScrapItemRepository,
	customerRepo repository.CustomerRepository,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		invoiceRepo:   invoiceRepo,
		lineRepo:      lineRepo,
		itemRepo:      itemRepo,
		customerRepo:  customerRepo,
	}
}

// CreateQuotationInput represents the input for creating a quotation
type CreateQuotationInput struct {
	CustomerID *uuid.UUID
	IssueDate  time.Time
	ValidUntil time.Time
	Terms      string
	Currency   string
	Notes      *string
	Items      []LineItemInput
}

// CreateQuotation creates a new draft quotation with its line items
func (s *QuotationService) CreateQuotation(ctx context.Context, input *CreateQuotationInput) (*entity.Quotation, error) {
	now := documentClock()

	nextNum, err := s.quotationRepo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}

	quotation := &entity.Quotation{
		DocumentBase: entity.DocumentBase{
			ID:        uuid.New(),
			Number:    fmt.Sprintf("%s-%06d", enum.DocumentTypeQuotation.NumberPrefix(), nextNum),
			IssueDate: input.IssueDate,
			Currency:  input.Currency,
			Notes:     input.Notes,
			Status:    enum.DocumentStatusDraft,
			CreatedAt: now,
		},
		ValidUntil: input.ValidUntil,
		Terms:      input.Terms,
	}
	if quotation.Currency == "" {
		quotation.Currency = "SAR"
	}
	if quotation.IssueDate.IsZero() {
		quotation.IssueDate = now
	}
	if quotation.ValidUntil.IsZero() {
		quotation.ValidUntil = quotation.IssueDate.AddDate(0, 0, 14)
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		quotation.SnapshotCustomer(customer)
	}

	if err := quotation.Validate(); err != nil {
		return nil, err
	}

	items, err := resolveLineItems(ctx, s.itemRepo, enum.DocumentTypeQuotation, quotation.ID, input.Items)
	if err != nil {
		return nil, err
	}
	if err := quotation.Recalculate(items, now); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, err
	}
	if err := s.lineRepo.CreateBatch(ctx, items); err != nil {
		return nil, err
	}

	return s.quotationRepo.GetWithItems(ctx, quotation.ID)
}

// GetQuotation retrieves a quotation with its line items
func (s *QuotationService) GetQuotation(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	return quotation, nil
}

// ListQuotations lists quotations with filtering
func (s *QuotationService) ListQuotations(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.Quotation], error) {
	params := &repository.DocumentFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		CustomerID: input.CustomerID,
		DateFrom:   input.DateFrom,
		DateTo:     input.DateTo,
	}

	quotations, total, err := s.quotationRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(quotations, pag), nil
}

// AddItem appends a line item and synchronously recomputes the totals. The
// variant's shadowed CheckEditable refuses this on a converted quotation.
func (s *QuotationService) AddItem(ctx context.Context, input *AddItemInput) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, quotation.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := quotation.CheckEditable(); err != nil {
		return nil, err
	}

	item, err := resolveLineItem(ctx, s.itemRepo, enum.DocumentTypeQuotation, quotation.ID, input.Item)
	if err != nil {
		return nil, err
	}

	items, err := s.lineRepo.GetByDocument(ctx, enum.DocumentTypeQuotation, quotation.ID)
	if err != nil {
		return nil, err
	}
	items = append(items, *item)
	if err := quotation.Recalculate(items, documentClock()); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Update(ctx, quotation, version); err != nil {
		return nil, err
	}
	if err := s.lineRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.quotationRepo.GetWithItems(ctx, quotation.ID)
}

// RemoveItem deletes a line item and recomputes the totals
func (s *QuotationService) RemoveItem(ctx context.Context, input *RemoveItemInput) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, quotation.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := quotation.CheckEditable(); err != nil {
		return nil, err
	}

	items, err := s.lineRepo.GetByDocument(ctx, enum.DocumentTypeQuotation, quotation.ID)
	if err != nil {
		return nil, err
	}
	remaining := make([]entity.DocumentItem, 0, len(items))
	found := false
	for _, item := range items {
		if item.ID == input.ItemID {
			found = true
			continue
		}
		remaining = append(remaining, item)
	}
	if !found {
		return nil, apperror.NewNotFoundError("Line item")
	}

	if err := quotation.Recalculate(remaining, documentClock()); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Update(ctx, quotation, version); err != nil {
		return nil, err
	}
	if err := s.lineRepo.Delete(ctx, input.ItemID); err != nil {
		return nil, err
	}
	return s.quotationRepo.GetWithItems(ctx, quotation.ID)
}

// ChangeStatus applies a lifecycle transition
func (s *QuotationService) ChangeStatus(ctx context.Context, input *ChangeStatusInput) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, quotation.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := quotation.Transition(input.Target, documentClock()); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Update(ctx, quotation, version); err != nil {
		return nil, err
	}
	return quotation, nil
}

// ConvertQuotationInput represents the input for converting a quotation to an
// invoice
type ConvertQuotationInput struct {
	QuotationID       uuid.UUID
	ExpectedUpdatedAt *time.Time
	DueDate           time.Time
	PaymentTerms      string
}

// ConvertToInvoice creates a draft invoice carrying the quotation's customer
// snapshot and copies of its line items, then records the one-way link. A
// second conversion attempt fails; an expired quotation cannot be converted.
func (s *QuotationService) ConvertToInvoice(ctx context.Context, input *ConvertQuotationInput) (*entity.Invoice, error) {
	now := documentClock()

	quotation, err := s.quotationRepo.GetWithItems(ctx, input.QuotationID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, quotation.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if quotation.ConvertedToInvoice {
		return nil, apperror.NewQuotationConvertedError()
	}
	if quotation.IsExpired(now) {
		return nil, apperror.NewBadRequestError("Quotation validity period has expired")
	}

	nextNum, err := s.invoiceRepo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		DocumentBase: entity.DocumentBase{
			ID:                 uuid.New(),
			Number:             fmt.Sprintf("%s-%06d", enum.DocumentTypeInvoice.NumberPrefix(), nextNum),
			IssueDate:          now,
			CustomerID:         quotation.CustomerID,
			CustomerName:       quotation.CustomerName,
			CustomerNameArabic: quotation.CustomerNameArabic,
			Currency:           quotation.Currency,
			Notes:              quotation.Notes,
			Status:             enum.DocumentStatusDraft,
			CreatedAt:          now,
		},
		DueDate:      input.DueDate,
		PaymentTerms: input.PaymentTerms,
	}
	if invoice.DueDate.IsZero() {
		invoice.DueDate = now.AddDate(0, 0, 30)
	}

	items := make([]entity.DocumentItem, 0, len(quotation.Items))
	for _, src := range quotation.Items {
		items = append(items, entity.DocumentItem{
			DocumentID:   invoice.ID,
			DocumentType: enum.DocumentTypeInvoice,
			ItemID:       src.ItemID,
			Description:  src.Description,
			Quantity:     src.Quantity,
			UnitPrice:    src.UnitPrice,
			Discount:     src.Discount,
			VATRate:      src.VATRate,
		})
	}
	if err := invoice.Recalculate(items, now); err != nil {
		return nil, err
	}

	// Record the link under the version check first, so a concurrent
	// conversion loses cleanly before any invoice exists.
	if err := quotation.MarkConverted(invoice.ID, now); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Update(ctx, quotation, version); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.lineRepo.CreateBatch(ctx, items); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithItems(ctx, invoice.ID)
}

// DeleteQuotation deletes a quotation and its line items. Converted
// quotations are part of the invoice's audit trail and cannot be deleted.
func (s *QuotationService) DeleteQuotation(ctx context.Context, id uuid.UUID) error {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if quotation == nil {
		return apperror.NewNotFoundError("Quotation")
	}
	if quotation.ConvertedToInvoice {
		return apperror.NewDocumentLockedError("converted")
	}
	if quotation.Status != enum.DocumentStatusDraft && quotation.Status != enum.DocumentStatusCancelled {
		return apperror.NewDocumentLockedError(quotation.Status.String())
	}

	if err := s.lineRepo.DeleteByDocument(ctx, enum.DocumentTypeQuotation, id); err != nil {
		return err
	}
	return s.quotationRepo.Delete(ctx, id)
}
