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

func createDraftVoucher(t *testing.T, f *fixture) *entity.ReceiptVoucher {
	t.Helper()
	voucher, err := f.receiptSvc.CreateReceiptVoucher(context.Background(), &CreateReceiptVoucherInput{
		CustomerID:    &f.customerID,
		PaymentMethod: enum.PaymentMethodCash,
		Items:         []LineItemInput{testLine(f.itemID)},
	})
	require.NoError(t, err)
	return voucher
}

func TestCreateReceiptVoucherDefaults(t *testing.T) {
	f := newFixture(t)
	voucher := createDraftVoucher(t, f)

	assert.Equal(t, "RV-000001", voucher.Number)
	assert.Equal(t, enum.PaymentMethodCash, voucher.PaymentMethod)
	// ReceivedFrom falls back to the customer name
	assert.Equal(t, "Al-Noor Metals", voucher.ReceivedFrom)
	assert.True(t, voucher.Total.Equal(dec("55.20")), "total = %s", voucher.Total)
}

func TestCreateReceiptVoucherInvalidPaymentMethod(t *testing.T) {
	f := newFixture(t)

	_, err := f.receiptSvc.CreateReceiptVoucher(context.Background(), &CreateReceiptVoucherInput{
		CustomerID:    &f.customerID,
		PaymentMethod: enum.PaymentMethod("crypto"),
		Items:         []LineItemInput{testLine(f.itemID)},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCreateReceiptVoucherRequiresReceivedFrom(t *testing.T) {
	f := newFixture(t)

	// No customer and no explicit payer
	_, err := f.receiptSvc.CreateReceiptVoucher(context.Background(), &CreateReceiptVoucherInput{
		PaymentMethod: enum.PaymentMethodBankTransfer,
		Items:         []LineItemInput{testLine(f.itemID)},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestFinalizeFromDraft(t *testing.T) {
	f := newFixture(t)
	voucher := createDraftVoucher(t, f)

	finalized, err := f.receiptSvc.Finalize(context.Background(), voucher.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, enum.DocumentStatusPaid, finalized.Status)
	assert.True(t, finalized.PaidAmount.Equal(finalized.Total), "paid = %s", finalized.PaidAmount)
	assert.True(t, finalized.Outstanding().IsZero())
}

func TestFinalizeFromIntermediateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	voucher := createDraftVoucher(t, f)

	for _, target := range []enum.DocumentStatus{enum.DocumentStatusPending, enum.DocumentStatusApproved} {
		var err error
		voucher, err = f.receiptSvc.ChangeStatus(ctx, &ChangeStatusInput{
			DocumentID: voucher.ID,
			Target:     target,
		})
		require.NoError(t, err)
	}

	finalized, err := f.receiptSvc.Finalize(ctx, voucher.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, enum.DocumentStatusPaid, finalized.Status)
}

func TestFinalizeCancelledVoucherFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	voucher := createDraftVoucher(t, f)

	_, err := f.receiptSvc.ChangeStatus(ctx, &ChangeStatusInput{
		DocumentID: voucher.ID,
		Target:     enum.DocumentStatusCancelled,
	})
	require.NoError(t, err)

	_, err = f.receiptSvc.Finalize(ctx, voucher.ID, nil)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition), "err = %v", err)
}

func TestFinalizeStaleWrite(t *testing.T) {
	f := newFixture(t)
	voucher := createDraftVoucher(t, f)

	stale := voucher.UpdatedAt.Add(-time.Second)
	_, err := f.receiptSvc.Finalize(context.Background(), voucher.ID, &stale)
	assert.True(t, apperror.IsKind(err, apperror.KindStaleWrite), "err = %v", err)

	stored, err := f.receiptSvc.GetReceiptVoucher(context.Background(), voucher.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.DocumentStatusDraft, stored.Status)
	assert.True(t, stored.PaidAmount.IsZero())
}

func TestFinalizeIsIdempotentOncePaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	voucher := createDraftVoucher(t, f)

	_, err := f.receiptSvc.Finalize(ctx, voucher.ID, nil)
	require.NoError(t, err)

	// Nothing outstanding and already paid: the walk is a no-op
	again, err := f.receiptSvc.Finalize(ctx, voucher.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, enum.DocumentStatusPaid, again.Status)
	assert.True(t, again.PaidAmount.Equal(again.Total))
}
