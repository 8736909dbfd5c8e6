package service

import (
	"context"
	"testing"
	"time"

	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDraftQuotation(t *testing.T, f *fixture) *entity.Quotation {
	t.Helper()
	quotation, err := f.quotationSvc.CreateQuotation(context.Background(), &CreateQuotationInput{
		CustomerID: &f.customerID,
		Terms:      "Prices valid for two weeks",
		Items:      []LineItemInput{testLine(f.itemID)},
	})
	require.NoError(t, err)
	return quotation
}

func TestCreateQuotationDefaults(t *testing.T) {
	f := newFixture(t)
	quotation := createDraftQuotation(t, f)

	assert.Equal(t, "QT-000001", quotation.Number)
	assert.True(t, quotation.ValidUntil.Equal(quotation.IssueDate.AddDate(0, 0, 14)))
	assert.False(t, quotation.ConvertedToInvoice)
	assert.True(t, quotation.Total.Equal(dec("55.20")), "total = %s", quotation.Total)
}

func TestConvertQuotationToInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quotation := createDraftQuotation(t, f)

	invoice, err := f.quotationSvc.ConvertToInvoice(ctx, &ConvertQuotationInput{
		QuotationID:  quotation.ID,
		PaymentTerms: "Net 30",
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", invoice.Number)
	assert.Equal(t, enum.DocumentStatusDraft, invoice.Status)
	assert.Equal(t, quotation.CustomerName, invoice.CustomerName)
	assert.True(t, invoice.Total.Equal(quotation.Total), "total = %s", invoice.Total)

	require.Len(t, invoice.Items, 1)
	assert.Equal(t, enum.DocumentTypeInvoice, invoice.Items[0].DocumentType)
	assert.Equal(t, quotation.Items[0].Description, invoice.Items[0].Description)

	// The quotation keeps the one-way link
	converted, err := f.quotationSvc.GetQuotation(ctx, quotation.ID)
	require.NoError(t, err)
	assert.True(t, converted.ConvertedToInvoice)
	require.NotNil(t, converted.InvoiceID)
	assert.Equal(t, invoice.ID, *converted.InvoiceID)
}

func TestConvertQuotationTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quotation := createDraftQuotation(t, f)

	first, err := f.quotationSvc.ConvertToInvoice(ctx, &ConvertQuotationInput{QuotationID: quotation.ID})
	require.NoError(t, err)

	_, err = f.quotationSvc.ConvertToInvoice(ctx, &ConvertQuotationInput{QuotationID: quotation.ID})
	assert.True(t, apperror.IsKind(err, apperror.KindQuotationConverted), "err = %v", err)

	// The original link is untouched
	stored, err := f.quotationSvc.GetQuotation(ctx, quotation.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.InvoiceID)
	assert.Equal(t, first.ID, *stored.InvoiceID)
}

func TestConvertedQuotationIsLocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quotation := createDraftQuotation(t, f)

	_, err := f.quotationSvc.ConvertToInvoice(ctx, &ConvertQuotationInput{QuotationID: quotation.ID})
	require.NoError(t, err)

	_, err = f.quotationSvc.AddItem(ctx, &AddItemInput{
		DocumentID: quotation.ID,
		Item:       testLine(f.itemID),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindDocumentLocked), "err = %v", err)

	err = f.quotationSvc.DeleteQuotation(ctx, quotation.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindDocumentLocked), "err = %v", err)
}

func TestConvertExpiredQuotationFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	issue := time.Now().UTC().AddDate(0, 0, -30)
	quotation, err := f.quotationSvc.CreateQuotation(ctx, &CreateQuotationInput{
		CustomerID: &f.customerID,
		IssueDate:  issue,
		ValidUntil: issue.AddDate(0, 0, 14),
		Items:      []LineItemInput{testLine(f.itemID)},
	})
	require.NoError(t, err)

	_, err = f.quotationSvc.ConvertToInvoice(ctx, &ConvertQuotationInput{QuotationID: quotation.ID})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestConvertCancelledQuotationFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quotation := createDraftQuotation(t, f)

	_, err := f.quotationSvc.ChangeStatus(ctx, &ChangeStatusInput{
		DocumentID: quotation.ID,
		Target:     enum.DocumentStatusCancelled,
	})
	require.NoError(t, err)

	_, err = f.quotationSvc.ConvertToInvoice(ctx, &ConvertQuotationInput{QuotationID: quotation.ID})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition), "err = %v", err)
}

func TestConvertQuotationStaleWrite(t *testing.T) {
	f := newFixture(t)
	quotation := createDraftQuotation(t, f)

	stale := quotation.UpdatedAt.Add(-time.Second)
	_, err := f.quotationSvc.ConvertToInvoice(context.Background(), &ConvertQuotationInput{
		QuotationID:       quotation.ID,
		ExpectedUpdatedAt: &stale,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindStaleWrite), "err = %v", err)

	// The losing attempt created nothing
	stored, err := f.quotationSvc.GetQuotation(context.Background(), quotation.ID)
	require.NoError(t, err)
	assert.False(t, stored.ConvertedToInvoice)
}

func TestQuotationRejectsValidityBeforeIssue(t *testing.T) {
	f := newFixture(t)
	issue := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := f.quotationSvc.CreateQuotation(context.Background(), &CreateQuotationInput{
		CustomerID: &f.customerID,
		IssueDate:  issue,
		ValidUntil: issue.AddDate(0, 0, -1),
		Items:      []LineItemInput{testLine(f.itemID)},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}
