package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// documentClock returns the instant used for document timestamps. Postgres
// stores timestamps at microsecond precision, so the version token is
// truncated here to survive a write/read round trip intact.
func documentClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// LineItemInput represents a line item input shared by all document variants
type LineItemInput struct {
	ItemID      uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	VATRate     decimal.Decimal
}

// resolveLineItem snapshots the catalog entry into a document line. The
// description and unit price default from the catalog when the caller leaves
// them empty; the snapshot never changes when the catalog does.
func resolveLineItem(ctx context.Context, itemRepo repository.ScrapItemRepository, docType enum.DocumentType, documentID uuid.UUID, input LineItemInput) (*entity.DocumentItem, error) {
	catalogItem, err := itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if catalogItem == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	description := input.Description
	if description == "" {
		description = catalogItem.Name
	}
	unitPrice := input.UnitPrice
	if unitPrice.IsZero() {
		unitPrice = catalogItem.PricePerUnit
	}

	item := &entity.DocumentItem{
		DocumentID:   documentID,
		DocumentType: docType,
		ItemID:       catalogItem.ID,
		Description:  description,
		Quantity:     input.Quantity,
		UnitPrice:    unitPrice,
		Discount:     input.Discount,
		VATRate:      input.VATRate,
	}
	if _, err := item.Compute(); err != nil {
		return nil, err
	}
	return item, nil
}

// resolveLineItems builds the full item set for a new document.
func resolveLineItems(ctx context.Context, itemRepo repository.ScrapItemRepository, docType enum.DocumentType, documentID uuid.UUID, inputs []LineItemInput) ([]entity.DocumentItem, error) {
	items := make([]entity.DocumentItem, 0, len(inputs))
	for _, input := range inputs {
		item, err := resolveLineItem(ctx, itemRepo, docType, documentID, input)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// checkVersion compares the caller's expected version against the stored one
// before any work happens. The repository repeats the check at commit time;
// this early check just fails fast.
func checkVersion(expected *time.Time, stored time.Time) (time.Time, error) {
	if expected == nil {
		return stored, nil
	}
	if !expected.Equal(stored) {
		return time.Time{}, apperror.ErrStaleWrite
	}
	return *expected, nil
}
