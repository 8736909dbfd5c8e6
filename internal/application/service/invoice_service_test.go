package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDraftInvoice(t *testing.T, f *fixture) *entity.Invoice {
	t.Helper()
	invoice, err := f.invoiceSvc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CustomerID: &f.customerID,
		Items:      []LineItemInput{testLine(f.itemID)},
	})
	require.NoError(t, err)
	return invoice
}

func advanceInvoice(t *testing.T, f *fixture, id uuid.UUID, targets ...enum.DocumentStatus) *entity.Invoice {
	t.Helper()
	var invoice *entity.Invoice
	var err error
	for _, target := range targets {
		invoice, err = f.invoiceSvc.ChangeStatus(context.Background(), &ChangeStatusInput{
			DocumentID: id,
			Target:     target,
		})
		require.NoError(t, err, "transition to %s", target)
	}
	return invoice
}

func TestCreateInvoiceDefaults(t *testing.T) {
	f := newFixture(t)
	invoice := createDraftInvoice(t, f)

	assert.Equal(t, "INV-000001", invoice.Number)
	assert.Equal(t, "SAR", invoice.Currency)
	assert.Equal(t, enum.DocumentStatusDraft, invoice.Status)
	assert.True(t, invoice.DueDate.Equal(invoice.IssueDate.AddDate(0, 0, 30)))
	assert.Equal(t, "Al-Noor Metals", invoice.CustomerName)

	require.Len(t, invoice.Items, 1)
	// The description snapshots the catalog name when the caller leaves it empty
	assert.Equal(t, "Copper Wire", invoice.Items[0].Description)
	assert.True(t, invoice.Subtotal.Equal(dec("50.00")), "subtotal = %s", invoice.Subtotal)
	assert.True(t, invoice.VATAmount.Equal(dec("7.20")), "vat = %s", invoice.VATAmount)
	assert.True(t, invoice.Total.Equal(dec("55.20")), "total = %s", invoice.Total)
	assert.Equal(t, 1, invoice.ItemCount)
}

func TestCreateInvoiceSequenceIncrements(t *testing.T) {
	f := newFixture(t)
	first := createDraftInvoice(t, f)
	second := createDraftInvoice(t, f)

	assert.Equal(t, "INV-000001", first.Number)
	assert.Equal(t, "INV-000002", second.Number)
}

func TestCreateInvoiceUnknownCustomer(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	_, err := f.invoiceSvc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CustomerID: &missing,
		Items:      []LineItemInput{testLine(f.itemID)},
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestInvoiceAddItemRecomputesTotals(t *testing.T) {
	f := newFixture(t)
	invoice := createDraftInvoice(t, f)

	invoice, err := f.invoiceSvc.AddItem(context.Background(), &AddItemInput{
		DocumentID: invoice.ID,
		Item:       testLine(f.itemID),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, invoice.ItemCount)
	assert.True(t, invoice.Subtotal.Equal(dec("100.00")), "subtotal = %s", invoice.Subtotal)
	assert.True(t, invoice.TotalDiscount.Equal(dec("4.00")), "discount = %s", invoice.TotalDiscount)
	assert.True(t, invoice.VATAmount.Equal(dec("14.40")), "vat = %s", invoice.VATAmount)
	assert.True(t, invoice.Total.Equal(dec("110.40")), "total = %s", invoice.Total)
}

func TestInvoiceUpdateItemRecomputesTotals(t *testing.T) {
	f := newFixture(t)
	invoice := createDraftInvoice(t, f)
	require.Len(t, invoice.Items, 1)

	changed := testLine(f.itemID)
	changed.Quantity = dec("20")
	invoice, err := f.invoiceSvc.UpdateItem(context.Background(), &UpdateItemInput{
		DocumentID: invoice.ID,
		ItemID:     invoice.Items[0].ID,
		Item:       changed,
	})
	require.NoError(t, err)

	// 20 * 5.00 - 2.00 = 98.00 net, 14.70 VAT
	assert.True(t, invoice.Subtotal.Equal(dec("100.00")), "subtotal = %s", invoice.Subtotal)
	assert.True(t, invoice.Total.Equal(dec("112.70")), "total = %s", invoice.Total)
}

func TestInvoiceRemoveLastItemYieldsZeroTotals(t *testing.T) {
	f := newFixture(t)
	invoice := createDraftInvoice(t, f)
	require.Len(t, invoice.Items, 1)

	invoice, err := f.invoiceSvc.RemoveItem(context.Background(), &RemoveItemInput{
		DocumentID: invoice.ID,
		ItemID:     invoice.Items[0].ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, invoice.ItemCount)
	assert.Empty(t, invoice.Items)
	assert.True(t, invoice.Subtotal.IsZero())
	assert.True(t, invoice.VATAmount.IsZero())
	assert.True(t, invoice.Total.IsZero())
}

func TestInvoiceMutationLockedAfterApproval(t *testing.T) {
	f := newFixture(t)
	invoice := createDraftInvoice(t, f)
	advanceInvoice(t, f, invoice.ID, enum.DocumentStatusPending, enum.DocumentStatusApproved)

	_, err := f.invoiceSvc.AddItem(context.Background(), &AddItemInput{
		DocumentID: invoice.ID,
		Item:       testLine(f.itemID),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindDocumentLocked), "err = %v", err)

	_, err = f.invoiceSvc.UpdateInvoice(context.Background(), &UpdateInvoiceInput{
		ID:           invoice.ID,
		PaymentTerms: strPtr("Net 60"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindDocumentLocked), "err = %v", err)
}

func TestInvoiceStaleWriteRejected(t *testing.T) {
	f := newFixture(t)
	invoice := createDraftInvoice(t, f)

	stale := invoice.UpdatedAt.Add(-time.Second)
	_, err := f.invoiceSvc.AddItem(context.Background(), &AddItemInput{
		DocumentID:        invoice.ID,
		ExpectedUpdatedAt: &stale,
		Item:              testLine(f.itemID),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindStaleWrite), "err = %v", err)

	// The matching version is accepted
	current := invoice.UpdatedAt
	_, err = f.invoiceSvc.AddItem(context.Background(), &AddItemInput{
		DocumentID:        invoice.ID,
		ExpectedUpdatedAt: &current,
		Item:              testLine(f.itemID),
	})
	assert.NoError(t, err)
}

func TestInvoiceSkippingStatusFails(t *testing.T) {
	f := newFixture(t)
	invoice := createDraftInvoice(t, f)

	_, err := f.invoiceSvc.ChangeStatus(context.Background(), &ChangeStatusInput{
		DocumentID: invoice.ID,
		Target:     enum.DocumentStatusApproved,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition), "err = %v", err)
}

func TestInvoicePaymentFlow(t *testing.T) {
	f := newFixture(t)
	invoice := createDraftInvoice(t, f)
	advanceInvoice(t, f, invoice.ID,
		enum.DocumentStatusPending,
		enum.DocumentStatusApproved,
		enum.DocumentStatusSent,
	)

	// Paid is refused until the payment covers the total
	_, err := f.invoiceSvc.ChangeStatus(context.Background(), &ChangeStatusInput{
		DocumentID: invoice.ID,
		Target:     enum.DocumentStatusPaid,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition), "err = %v", err)

	paid, err := f.invoiceSvc.ApplyPayment(context.Background(), &ApplyPaymentInput{
		DocumentID: invoice.ID,
		Amount:     dec("55.20"),
	})
	require.NoError(t, err)
	assert.True(t, paid.Outstanding().IsZero())

	final := advanceInvoice(t, f, invoice.ID, enum.DocumentStatusPaid)
	assert.Equal(t, enum.DocumentStatusPaid, final.Status)
}

func TestInvoiceCancelThenDelete(t *testing.T) {
	f := newFixture(t)
	invoice := createDraftInvoice(t, f)
	advanceInvoice(t, f, invoice.ID, enum.DocumentStatusPending, enum.DocumentStatusApproved)

	err := f.invoiceSvc.DeleteInvoice(context.Background(), invoice.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindDocumentLocked), "err = %v", err)

	advanceInvoice(t, f, invoice.ID, enum.DocumentStatusCancelled)
	require.NoError(t, f.invoiceSvc.DeleteInvoice(context.Background(), invoice.ID))

	_, err = f.invoiceSvc.GetInvoice(context.Background(), invoice.ID)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	// Line items go with the document
	items, _ := f.lines.GetByDocument(context.Background(), enum.DocumentTypeInvoice, invoice.ID)
	assert.Empty(t, items)
}

func TestInvoiceRejectsInvalidDueDate(t *testing.T) {
	f := newFixture(t)
	issue := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := f.invoiceSvc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CustomerID: &f.customerID,
		IssueDate:  issue,
		DueDate:    issue.AddDate(0, 0, -1),
		Items:      []LineItemInput{testLine(f.itemID)},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}
