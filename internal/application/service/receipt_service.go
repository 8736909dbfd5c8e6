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

// ReceiptVoucherService handles receipt voucher operations
type ReceiptVoucherService struct {
	voucherRepo  repository.ReceiptVoucherRepository
	lineRepo     repository.DocumentItemRepository
	itemRepo     repository.ScrapItemRepository
	customerRepo repository.CustomerRepository
}

// NewReceiptVoucherService creates a new receipt voucher service
func NewReceiptVoucherService(
	voucherRepo repository.ReceiptVoucherRepository,
	lineRepo repository.DocumentItemRepository,
	itemRepo repository.ScrapItemRepository,
	customerRepo repository.CustomerRepository,
) *ReceiptVoucherService {
	return &ReceiptVoucherService{
		voucherRepo:  voucherRepo,
		lineRepo:     lineRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
	}
}

// CreateReceiptVoucherInput represents the input for creating a receipt
// voucher
type CreateReceiptVoucherInput struct {
	CustomerID    *uuid.UUID
	IssueDate     time.Time
	PaymentMethod enum.PaymentMethod
	ReceivedFrom  string
	Currency      string
	Notes         *string
	Items         []LineItemInput
}

// CreateReceiptVoucher creates a new draft receipt voucher with its line
// items
func (s *ReceiptVoucherService) CreateReceiptVoucher(ctx context.Context, input *CreateReceiptVoucherInput) (*entity.ReceiptVoucher, error) {
	now := documentClock()

	nextNum, err := s.voucherRepo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}

	voucher := &entity.ReceiptVoucher{
		DocumentBase: entity.DocumentBase{
			ID:        uuid.New(),
			Number:    fmt.Sprintf("%s-%06d", enum.DocumentTypeReceiptVoucher.NumberPrefix(), nextNum),
			IssueDate: input.IssueDate,
			Currency:  input.Currency,
			Notes:     input.Notes,
			Status:    enum.DocumentStatusDraft,
			CreatedAt: now,
		},
		PaymentMethod: input.PaymentMethod,
		ReceivedFrom:  input.ReceivedFrom,
	}
	if voucher.Currency == "" {
		voucher.Currency = "SAR"
	}
	if voucher.IssueDate.IsZero() {
		voucher.IssueDate = now
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		voucher.SnapshotCustomer(customer)
		if voucher.ReceivedFrom == "" {
			voucher.ReceivedFrom = customer.Name
		}
	}

	if err := voucher.Validate(); err != nil {
		return nil, err
	}

	items, err := resolveLineItems(ctx, s.itemRepo, enum.DocumentTypeReceiptVoucher, voucher.ID, input.Items)
	if err != nil {
		return nil, err
	}
	if err := voucher.Recalculate(items, now); err != nil {
		return nil, err
	}

	if err := s.voucherRepo.Create(ctx, voucher); err != nil {
		return nil, err
	}
	if err := s.lineRepo.CreateBatch(ctx, items); err != nil {
		return nil, err
	}

	return s.voucherRepo.GetWithItems(ctx, voucher.ID)
}

// GetReceiptVoucher retrieves a receipt voucher with its line items
func (s *ReceiptVoucherService) GetReceiptVoucher(ctx context.Context, id uuid.UUID) (*entity.ReceiptVoucher, error) {
	voucher, err := s.voucherRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Receipt voucher")
	}
	return voucher, nil
}

// ListReceiptVouchers lists receipt vouchers with filtering
func (s *ReceiptVoucherService) ListReceiptVouchers(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.ReceiptVoucher], error) {
	params := &repository.DocumentFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		CustomerID: input.CustomerID,
		DateFrom:   input.DateFrom,
		DateTo:     input.DateTo,
	}

	vouchers, total, err := s.voucherRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(vouchers, pag), nil
}

// AddItem appends a line item and synchronously recomputes the totals
func (s *ReceiptVoucherService) AddItem(ctx context.Context, input *AddItemInput) (*entity.ReceiptVoucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Receipt voucher")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, voucher.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := voucher.CheckEditable(); err != nil {
		return nil, err
	}

	item, err := resolveLineItem(ctx, s.itemRepo, enum.DocumentTypeReceiptVoucher, voucher.ID, input.Item)
	if err != nil {
		return nil, err
	}

	items, err := s.lineRepo.GetByDocument(ctx, enum.DocumentTypeReceiptVoucher, voucher.ID)
	if err != nil {
		return nil, err
	}
	items = append(items, *item)
	if err := voucher.Recalculate(items, documentClock()); err != nil {
		return nil, err
	}

	if err := s.voucherRepo.Update(ctx, voucher, version); err != nil {
		return nil, err
	}
	if err := s.lineRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.voucherRepo.GetWithItems(ctx, voucher.ID)
}

// RemoveItem deletes a line item and recomputes the totals
func (s *ReceiptVoucherService) RemoveItem(ctx context.Context, input *RemoveItemInput) (*entity.ReceiptVoucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Receipt voucher")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, voucher.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := voucher.CheckEditable(); err != nil {
		return nil, err
	}

	items, err := s.lineRepo.GetByDocument(ctx, enum.DocumentTypeReceiptVoucher, voucher.ID)
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

	if err := voucher.Recalculate(remaining, documentClock()); err != nil {
		return nil, err
	}

	if err := s.voucherRepo.Update(ctx, voucher, version); err != nil {
		return nil, err
	}
	if err := s.lineRepo.Delete(ctx, input.ItemID); err != nil {
		return nil, err
	}
	return s.voucherRepo.GetWithItems(ctx, voucher.ID)
}

// ChangeStatus applies a lifecycle transition
func (s *ReceiptVoucherService) ChangeStatus(ctx context.Context, input *ChangeStatusInput) (*entity.ReceiptVoucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Receipt voucher")
	}
	version, err := checkVersion(input.ExpectedUpdatedAt, voucher.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := voucher.Transition(input.Target, documentClock()); err != nil {
		return nil, err
	}
	if err := s.voucherRepo.Update(ctx, voucher, version); err != nil {
		return nil, err
	}
	return voucher, nil
}

// Finalize records payment of the full total and walks the voucher through
// the remaining lifecycle to paid. A receipt documents money already
// received, so the whole chain applies at once; each hop still goes through
// the ordinary transition guards.
func (s *ReceiptVoucherService) Finalize(ctx context.Context, id uuid.UUID, expectedUpdatedAt *time.Time) (*entity.ReceiptVoucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Receipt voucher")
	}
	version, err := checkVersion(expectedUpdatedAt, voucher.UpdatedAt)
	if err != nil {
		return nil, err
	}

	now := documentClock()
	if outstanding := voucher.Outstanding(); outstanding.IsPositive() {
		if err := voucher.ApplyPayment(outstanding, now); err != nil {
			return nil, err
		}
	}
	for voucher.Status != enum.DocumentStatusPaid {
		var next enum.DocumentStatus
		switch voucher.Status {
		case enum.DocumentStatusDraft:
			next = enum.DocumentStatusPending
		case enum.DocumentStatusPending:
			next = enum.DocumentStatusApproved
		case enum.DocumentStatusApproved:
			next = enum.DocumentStatusSent
		case enum.DocumentStatusSent:
			next = enum.DocumentStatusPaid
		default:
			return nil, apperror.NewInvalidTransitionError(voucher.Status.String(), enum.DocumentStatusPaid.String())
		}
		if err := voucher.Transition(next, now); err != nil {
			return nil, err
		}
	}

	if err := s.voucherRepo.Update(ctx, voucher, version); err != nil {
		return nil, err
	}
	return voucher, nil
}

// DeleteReceiptVoucher deletes a voucher and its line items. Only drafts and
// cancelled documents may be deleted.
func (s *ReceiptVoucherService) DeleteReceiptVoucher(ctx context.Context, id uuid.UUID) error {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if voucher == nil {
		return apperror.NewNotFoundError("Receipt voucher")
	}
	if voucher.Status != enum.DocumentStatusDraft && voucher.Status != enum.DocumentStatusCancelled {
		return apperror.NewDocumentLockedError(voucher.Status.String())
	}

	if err := s.lineRepo.DeleteByDocument(ctx, enum.DocumentTypeReceiptVoucher, id); err != nil {
		return err
	}
	return s.voucherRepo.Delete(ctx, id)
}
