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
	"github.com/scrapdocs/scrapdocs-api/pkg/logger"
	"github.com/scrapdocs/scrapdocs-api/pkg/pagination"
	"github.com/scrapdocs/scrapdocs-api/pkg/zatca"
)

// EInvoiceService handles e-invoice operations including tax-authority
// clearance
type EInvoiceService struct {
	einvoiceRepo repository.EInvoiceRepository
	lineRepo     repository.DocumentItemRepository
	itemRepo     repository.ScrapItemRepository
	customerRepo repository.CustomerRepository
	zatcaClient  zatca.Client
	settings     *SettingsService
	log          zerolog.Logger
}

// NewEInvoiceService creates a new e-invoice service
func NewEInvoiceService(
	einvoiceRepo repository.EInvoiceRepository,
	lineRepo repository.DocumentItemRepository,
	itemRepo repository.ScrapItemRepository,
	customerRepo repository.CustomerRepository,
	zatcaClient zatca.Client,
	settings *SettingsService,
) *EInvoiceService {
	return &EInvoiceService{
		einvoiceRepo: einvoiceRepo,
		lineRepo:     lineRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		zatcaClient:  zatcaClient,
		settings:     settings,
		log:          logger.WithComponent("einvoice"),
	}
}

// CreateEInvoiceInput represents the input for creating an e-invoice
type CreateEInvoiceInput struct {
	CustomerID   *uuid.UUID
	IssueDate    time.Time
	DueDate      time.Time
	PaymentTerms string
	Currency     string
	Notes        *string
	Items        []LineItemInput
}

// CreateEInvoice creates a new draft e-invoice with its line items. The
// compliance state starts at pending.
func (s *EInvoiceService) CreateEInvoice(ctx context.Context, input *CreateEInvoiceInput) (*entity.EInvoice, error) {
	now := documentClock()

	nextNum, err := s.einvoiceRepo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}

	einvoice := &entity.EInvoice{
		DocumentBase: entity.DocumentBase{
			ID:        uuid.New(),
			Number:    fmt.Sprintf("%s-%06d", enum.DocumentTypeEInvoice.NumberPrefix(), nextNum),
			IssueDate: input.IssueDate,
			Currency:  input.Currency,
			Notes:     input.Notes,
			Status:    enum.DocumentStatusDraft,
			CreatedAt: now,
		},
		DueDate:      input.DueDate,
		PaymentTerms: input.PaymentTerms,
		ZATCAStatus:  enum.ComplianceStatusPending,
	}
	if einvoice.Currency == "" {
		einvoice.Currency = "SAR"
	}
	if einvoice.IssueDate.IsZero() {
		einvoice.IssueDate = now
	}
	if einvoice.DueDate.IsZero() {
		einvoice.DueDate = einvoice.IssueDate.AddDate(0, 0, 30)
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		einvoice.SnapshotCustomer(customer)
	}

	if err := einvoice.Validate(); err != nil {
		return nil, err
	}

	items, err := resolveLineItems(ctx, s.itemRepo, enum.DocumentTypeEInvoice, einvoice.ID, input.Items)
	if err != nil {
		return nil, err
	}
	if err := einvoice.Recalculate(items, now); err != nil {
		return nil, err
	}

	if err := s.einvoiceRepo.Create(ctx, einvoice); err != nil {
		return nil, err
	}
	if err := s.lineRepo.CreateBatch(ctx, items); err != nil {
		return nil, err
	}

	return s.einvoiceRepo.GetWithItems(ctx, einvoice.ID)
}

// GetEInvoice retrieves an e-invoice with its line items
func (s *EInvoiceService) GetEInvoice(ctx context.Context, id uuid.UUID) (*entity.EInvoice, error) {
	einvoice, err := s.einvoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if einvoice == nil {
		return nil, apperror.NewNotFoundError("E-invoice")
	}
	return einvoice, nil
}

// ListEInvoices lists e-invoices with filtering
func (s *EInvoiceService) ListEInvoices(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.EInvoice], error) {
	params := &repository.DocumentFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		CustomerID: input.CustomerID,
		DateFrom:   input.DateFrom,
		DateTo:     input.DateTo,
	}

	einvoices, total, err := s.einvoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(einvoices, pag), nil
}

// AddItem appends a line item and synchronously recomputes the totals
func (s *EInvoiceService) AddItem(ctx context.Context, input *AddItemInput) (*entity.EInvoice, error) {
	einvoice, err := s.einvoiceRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if einvoice == nil {
		return nil, apperror.NewNotFoundError("E-invoice")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, einvoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := einvoice.CheckEditable(); err != nil {
		return nil, err
	}

	item, err := resolveLineItem(ctx, s.itemRepo, enum.DocumentTypeEInvoice, einvoice.ID, input.Item)
	if err != nil {
		return nil, err
	}

	items, err := s.lineRepo.GetByDocument(ctx, enum.DocumentTypeEInvoice, einvoice.ID)
	if err != nil {
		return nil, err
	}
	items = append(items, *item)
	if err := einvoice.Recalculate(items, documentClock()); err != nil {
		return nil, err
	}

	if err := s.einvoiceRepo.Update(ctx, einvoice, version); err != nil {
		return nil, err
	}
	if err := s.lineRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.einvoiceRepo.GetWithItems(ctx, einvoice.ID)
}

// UpdateItem replaces a line item's priced fields and recomputes the totals
func (s *EInvoiceService) UpdateItem(ctx context.Context, input *UpdateItemInput) (*entity.EInvoice, error) {
	einvoice, err := s.einvoiceRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if einvoice == nil {
		return nil, apperror.NewNotFoundError("E-invoice")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, einvoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := einvoice.CheckEditable(); err != nil {
		return nil, err
	}

	items, err := s.lineRepo.GetByDocument(ctx, enum.DocumentTypeEInvoice, einvoice.ID)
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

	if err := einvoice.Recalculate(items, documentClock()); err != nil {
		return nil, err
	}

	if err := s.einvoiceRepo.Update(ctx, einvoice, version); err != nil {
		return nil, err
	}
	if err := s.lineRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return s.einvoiceRepo.GetWithItems(ctx, einvoice.ID)
}

// RemoveItem deletes a line item and recomputes the totals
func (s *EInvoiceService) RemoveItem(ctx context.Context, input *RemoveItemInput) (*entity.EInvoice, error) {
	einvoice, err := s.einvoiceRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if einvoice == nil {
		return nil, apperror.NewNotFoundError("E-invoice")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, einvoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := einvoice.CheckEditable(); err != nil {
		return nil, err
	}

	items, err := s.lineRepo.GetByDocument(ctx, enum.DocumentTypeEInvoice, einvoice.ID)
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

	if err := einvoice.Recalculate(remaining, documentClock()); err != nil {
		return nil, err
	}

	if err := s.einvoiceRepo.Update(ctx, einvoice, version); err != nil {
		return nil, err
	}
	if err := s.lineRepo.Delete(ctx, input.ItemID); err != nil {
		return nil, err
	}
	return s.einvoiceRepo.GetWithItems(ctx, einvoice.ID)
}

// ChangeStatus applies a lifecycle transition. The variant's shadowed
// Transition blocks sent until clearance is approved.
func (s *EInvoiceService) ChangeStatus(ctx context.Context, input *ChangeStatusInput) (*entity.EInvoice, error) {
	einvoice, err := s.einvoiceRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if einvoice == nil {
		return nil, apperror.NewNotFoundError("E-invoice")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, einvoice.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := einvoice.Transition(input.Target, documentClock()); err != nil {
		return nil, err
	}
	if err := s.einvoiceRepo.Update(ctx, einvoice, version); err != nil {
		return nil, err
	}
	return einvoice, nil
}

// ApplyPayment accumulates a received payment on the e-invoice
func (s *EInvoiceService) ApplyPayment(ctx context.Context, input *ApplyPaymentInput) (*entity.EInvoice, error) {
	einvoice, err := s.einvoiceRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if einvoice == nil {
		return nil, apperror.NewNotFoundError("E-invoice")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, einvoice.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := einvoice.ApplyPayment(input.Amount, documentClock()); err != nil {
		return nil, err
	}
	if err := s.einvoiceRepo.Update(ctx, einvoice, version); err != nil {
		return nil, err
	}
	return einvoice, nil
}

// SubmitToZATCA submits an approved e-invoice for clearance. The network call
// runs outside any lock; the result is applied under the version check, so a
// concurrent edit during the call surfaces as a stale write instead of
// clobbering it. A result without a reference leaves the compliance state at
// pending.
func (s *EInvoiceService) SubmitToZATCA(ctx context.Context, id uuid.UUID) (*entity.EInvoice, error) {
	einvoice, err := s.einvoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if einvoice == nil {
		return nil, apperror.NewNotFoundError("E-invoice")
	}
	if einvoice.Status != enum.DocumentStatusApproved {
		return nil, apperror.NewInvalidTransitionError(einvoice.Status.String(), "zatca submission")
	}
	if einvoice.ZATCAStatus != enum.ComplianceStatusPending {
		return nil, apperror.NewInvalidTransitionError("zatca "+einvoice.ZATCAStatus.String(), "zatca submitted")
	}
	version := einvoice.UpdatedAt

	snapshot := s.buildSnapshot(einvoice)
	result, err := s.zatcaClient.Submit(ctx, snapshot)
	if err != nil {
		s.log.Error().Err(err).Str("number", einvoice.Number).Msg("ZATCA clearance call failed")
		return nil, apperror.NewAppError(502, "Tax authority submission failed: "+err.Error())
	}

	now := documentClock()
	if err := einvoice.RecordSubmission(result.ReferenceID, result.InvoiceHash, now); err != nil {
		return nil, err
	}
	if result.Cleared {
		if err := einvoice.ApproveCompliance(now); err != nil {
			return nil, err
		}
	} else {
		if err := einvoice.RejectCompliance(result.RejectionReason, now); err != nil {
			return nil, err
		}
	}

	if err := s.einvoiceRepo.Update(ctx, einvoice, version); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("number", einvoice.Number).
		Str("reference", result.ReferenceID).
		Bool("cleared", result.Cleared).
		Msg("ZATCA clearance result recorded")
	return einvoice, nil
}

// RetrySubmission returns a rejected submission to pending so it can be
// submitted again
func (s *EInvoiceService) RetrySubmission(ctx context.Context, id uuid.UUID) (*entity.EInvoice, error) {
	einvoice, err := s.einvoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if einvoice == nil {
		return nil, apperror.NewNotFoundError("E-invoice")
	}
	version := einvoice.UpdatedAt

	if err := einvoice.ResetCompliance(documentClock()); err != nil {
		return nil, err
	}
	if err := s.einvoiceRepo.Update(ctx, einvoice, version); err != nil {
		return nil, err
	}
	return einvoice, nil
}

// DeleteEInvoice deletes an e-invoice and its line items. Only drafts and
// cancelled documents may be deleted.
func (s *EInvoiceService) DeleteEInvoice(ctx context.Context, id uuid.UUID) error {
	einvoice, err := s.einvoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if einvoice == nil {
		return apperror.NewNotFoundError("E-invoice")
	}
	if einvoice.Status != enum.DocumentStatusDraft && einvoice.Status != enum.DocumentStatusCancelled {
		return apperror.NewDocumentLockedError(einvoice.Status.String())
	}

	if err := s.lineRepo.DeleteByDocument(ctx, enum.DocumentTypeEInvoice, id); err != nil {
		return err
	}
	return s.einvoiceRepo.Delete(ctx, id)
}

func (s *EInvoiceService) buildSnapshot(einvoice *entity.EInvoice) zatca.InvoiceSnapshot {
	seller := s.settings.CompanyProfile()

	snapshot := zatca.InvoiceSnapshot{
		InvoiceID:       einvoice.ID.String(),
		Number:          einvoice.Number,
		IssueDate:       einvoice.IssueDate,
		SellerName:      seller.Name,
		SellerVATNumber: seller.VATNumber,
		BuyerName:       einvoice.CustomerName,
		Currency:        einvoice.Currency,
		Subtotal:        einvoice.Subtotal,
		VATAmount:       einvoice.VATAmount,
		Total:           einvoice.Total,
	}
	if einvoice.Customer != nil && einvoice.Customer.VATNumber != nil {
		snapshot.BuyerVATNumber = *einvoice.Customer.VATNumber
	}

	snapshot.Lines = make([]zatca.LineSnapshot, 0, len(einvoice.Items))
	for _, item := range einvoice.Items {
		snapshot.Lines = append(snapshot.Lines, zatca.LineSnapshot{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VATRate:     item.VATRate,
			Total:       item.Total,
		})
	}
	return snapshot
}
