package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/scrapdocs/scrapdocs-api/pkg/email"
	"github.com/scrapdocs/scrapdocs-api/pkg/logger"
	"github.com/scrapdocs/scrapdocs-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// DocumentMailer sends document notifications to customers.
type DocumentMailer interface {
	SendDocumentEmail(to string, doc email.DocumentEmail) error
}

// InvoiceService handles invoice-related operations
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	lineRepo     repository.DocumentItemRepository
	itemRepo     repository.ScrapItemRepository
	customerRepo repository.CustomerRepository
	mailer       DocumentMailer
	settings     *SettingsService
	log          zerolog.Logger
}

// NewInvoiceService creates a new invoice service. The mailer may be nil when
// outbound email is not configured.
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	lineRepo repository.DocumentItemRepository,
	itemRepo repository.ScrapItemRepository,
	customerRepo repository.CustomerRepository,
	mailer DocumentMailer,
	settings *SettingsService,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		lineRepo:     lineRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		mailer:       mailer,
		settings:     settings,
		log:          logger.WithComponent("invoice"),
	}
}

// CreateInvoiceInput represents the input for creating an invoice
type CreateInvoiceInput struct {
	CustomerID   *uuid.UUID
	IssueDate    time.Time
	DueDate      time.Time
	PaymentTerms string
	Currency     string
	Notes        *string
	Items        []LineItemInput
}

// CreateInvoice creates a new draft invoice with its line items
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	now := documentClock()

	nextNum, err := s.invoiceRepo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		DocumentBase: entity.DocumentBase{
			ID:        uuid.New(),
			Number:    fmt.Sprintf("%s-%06d", enum.DocumentTypeInvoice.NumberPrefix(), nextNum),
			IssueDate: input.IssueDate,
			Currency:  input.Currency,
			Notes:     input.Notes,
			Status:    enum.DocumentStatusDraft,
			CreatedAt: now,
		},
		DueDate:      input.DueDate,
		PaymentTerms: input.PaymentTerms,
	}
	if invoice.Currency == "" {
		invoice.Currency = "SAR"
	}
	if invoice.IssueDate.IsZero() {
		invoice.IssueDate = now
	}
	if invoice.DueDate.IsZero() {
		invoice.DueDate = invoice.IssueDate.AddDate(0, 0, 30)
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		invoice.SnapshotCustomer(customer)
	}

	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	items, err := resolveLineItems(ctx, s.itemRepo, enum.DocumentTypeInvoice, invoice.ID, input.Items)
	if err != nil {
		return nil, err
	}
	if err := invoice.Recalculate(items, now); err != nil {
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

// GetInvoice retrieves an invoice with its line items
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoicesInput represents the input for listing invoices
type ListInvoicesInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.DocumentStatus
	CustomerID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// ListInvoices lists invoices with filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.Invoice], error) {
	params := &repository.DocumentFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		CustomerID: input.CustomerID,
		DateFrom:   input.DateFrom,
		DateTo:     input.DateTo,
	}

	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// UpdateInvoiceInput represents the header fields that may change while the
// invoice is still editable
type UpdateInvoiceInput struct {
	ID                uuid.UUID
	ExpectedUpdatedAt *time.Time
	CustomerID        *uuid.UUID
	IssueDate         *time.Time
	DueDate           *time.Time
	PaymentTerms      *string
	Notes             *string
}

// UpdateInvoice updates the invoice header
func (s *InvoiceService) UpdateInvoice(ctx context.Context, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := invoice.CheckEditable(); err != nil {
		return nil, err
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		invoice.SnapshotCustomer(customer)
	}
	if input.IssueDate != nil {
		invoice.IssueDate = *input.IssueDate
	}
	if input.DueDate != nil {
		invoice.DueDate = *input.DueDate
	}
	if input.PaymentTerms != nil {
		invoice.PaymentTerms = *input.PaymentTerms
	}
	if input.Notes != nil {
		invoice.Notes = input.Notes
	}

	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	invoice.Touch(documentClock())
	if err := s.invoiceRepo.Update(ctx, invoice, version); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetWithItems(ctx, invoice.ID)
}

// AddItemInput represents the input for adding a line item to a document
type AddItemInput struct {
	DocumentID        uuid.UUID
	ExpectedUpdatedAt *time.Time
	Item              LineItemInput
}

// AddItem appends a line item and synchronously recomputes the totals
func (s *InvoiceService) AddItem(ctx context.Context, input *AddItemInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := invoice.CheckEditable(); err != nil {
		return nil, err
	}

	item, err := resolveLineItem(ctx, s.itemRepo, enum.DocumentTypeInvoice, invoice.ID, input.Item)
	if err != nil {
		return nil, err
	}

	items, err := s.lineRepo.GetByDocument(ctx, enum.DocumentTypeInvoice, invoice.ID)
	if err != nil {
		return nil, err
	}
	items = append(items, *item)
	if err := invoice.Recalculate(items, documentClock()); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, invoice, version); err != nil {
		return nil, err
	}
	if err := s.lineRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetWithItems(ctx, invoice.ID)
}

// UpdateItemInput represents the input for updating a line item
type UpdateItemInput struct {
	DocumentID        uuid.UUID
	ItemID            uuid.UUID
	ExpectedUpdatedAt *time.Time
	Item              LineItemInput
}

// UpdateItem replaces a line item's priced fields and recomputes the totals
func (s *InvoiceService) UpdateItem(ctx context.Context, input *UpdateItemInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := invoice.CheckEditable(); err != nil {
		return nil, err
	}

	items, err := s.lineRepo.GetByDocument(ctx, enum.DocumentTypeInvoice, invoice.ID)
	if err != nil {
		return nil, err
	}
	var target *entity.DocumentItem
	for i := range items {
		if items[i].ID == input.ItemID {
			target = &items[i]
			break
		}
	}
	if target == nil {
		return nil, apperror.NewNotFoundError("Line item")
	}

	if input.Item.Description != "" {
		target.Description = input.Item.Description
	}
	target.Quantity = input.Item.Quantity
	target.UnitPrice = input.Item.UnitPrice
	target.Discount = input.Item.Discount
	target.VATRate = input.Item.VATRate

	if err := invoice.Recalculate(items, documentClock()); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, invoice, version); err != nil {
		return nil, err
	}
	if err := s.lineRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetWithItems(ctx, invoice.ID)
}

// RemoveItemInput represents the input for removing a line item
type RemoveItemInput struct {
	DocumentID        uuid.UUID
	ItemID            uuid.UUID
	ExpectedUpdatedAt *time.Time
}

// RemoveItem deletes a line item and recomputes the totals. Removing the last
// item is valid and yields all-zero totals.
func (s *InvoiceService) RemoveItem(ctx context.Context, input *RemoveItemInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := invoice.CheckEditable(); err != nil {
		return nil, err
	}

	items, err := s.lineRepo.GetByDocument(ctx, enum.DocumentTypeInvoice, invoice.ID)
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

	if err := invoice.Recalculate(remaining, documentClock()); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, invoice, version); err != nil {
		return nil, err
	}
	if err := s.lineRepo.Delete(ctx, input.ItemID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetWithItems(ctx, invoice.ID)
}

// ChangeStatusInput represents a lifecycle transition request
type ChangeStatusInput struct {
	DocumentID        uuid.UUID
	Target            enum.DocumentStatus
	ExpectedUpdatedAt *time.Time
}

// ChangeStatus applies a lifecycle transition
func (s *InvoiceService) ChangeStatus(ctx context.Context, input *ChangeStatusInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := invoice.Transition(input.Target, documentClock()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, invoice, version); err != nil {
		return nil, err
	}

	// Sending the document also notifies the customer; a mail failure is
	// logged but never rolls back the transition.
	if input.Target == enum.DocumentStatusSent {
		s.emailInvoice(ctx, invoice.ID)
	}
	return invoice, nil
}

func (s *InvoiceService) emailInvoice(ctx context.Context, id uuid.UUID) {
	if s.mailer == nil || s.settings == nil {
		return
	}
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil || invoice == nil {
		return
	}
	if invoice.Customer == nil || invoice.Customer.Email == nil || *invoice.Customer.Email == "" {
		return
	}

	company := s.settings.CompanyProfile()
	doc := email.DocumentEmail{
		CompanyName:  company.Name,
		DocumentKind: "Invoice",
		Number:       invoice.Number,
		CustomerName: invoice.CustomerName,
		IssueDate:    invoice.IssueDate.Format("2006-01-02"),
		DueDate:      invoice.DueDate.Format("2006-01-02"),
		Currency:     invoice.Currency,
		Total:        invoice.Total.StringFixed(2),
		Outstanding:  invoice.Outstanding().StringFixed(2),
	}
	for _, item := range invoice.Items {
		doc.Lines = append(doc.Lines, email.DocumentEmailLine{
			Description: item.Description,
			Quantity:    item.Quantity.StringFixed(3),
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Total:       item.Total.StringFixed(2),
		})
	}

	if err := s.mailer.SendDocumentEmail(*invoice.Customer.Email, doc); err != nil {
		s.log.Warn().Err(err).Str("number", invoice.Number).Msg("Failed to email invoice")
	}
}

// ApplyPaymentInput represents a payment applied to an invoice
type ApplyPaymentInput struct {
	DocumentID        uuid.UUID
	Amount            decimal.Decimal
	ExpectedUpdatedAt *time.Time
}

// ApplyPayment accumulates a received payment on the invoice. When the paid
// amount covers the total on a sent invoice, the caller may then transition
// it to paid.
func (s *InvoiceService) ApplyPayment(ctx context.Context, input *ApplyPaymentInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := invoice.ApplyPayment(input.Amount, documentClock()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, invoice, version); err != nil {
		return nil, err
	}
	return invoice, nil
}

// DeleteInvoice deletes an invoice and its line items. Only drafts and
// cancelled documents may be deleted.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}
	if invoice.Status != enum.DocumentStatusDraft && invoice.Status != enum.DocumentStatusCancelled {
		return apperror.NewDocumentLockedError(invoice.Status.String())
	}

	if err := s.lineRepo.DeleteByDocument(ctx, enum.DocumentTypeInvoice, id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, id)
}
