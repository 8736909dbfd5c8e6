package service

import (
	"context"
	"errors"
	"testing"

	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/scrapdocs/scrapdocs-api/pkg/zatca"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// approvedEInvoice creates an e-invoice and walks it to approved, the status
// required for clearance submission.
func approvedEInvoice(t *testing.T, f *fixture) *entity.EInvoice {
	t.Helper()
	ctx := context.Background()

	einvoice, err := f.einvoiceSvc.CreateEInvoice(ctx, &CreateEInvoiceInput{
		CustomerID: &f.customerID,
		Items:      []LineItemInput{testLine(f.itemID)},
	})
	require.NoError(t, err)

	for _, target := range []enum.DocumentStatus{enum.DocumentStatusPending, enum.DocumentStatusApproved} {
		einvoice, err = f.einvoiceSvc.ChangeStatus(ctx, &ChangeStatusInput{
			DocumentID: einvoice.ID,
			Target:     target,
		})
		require.NoError(t, err)
	}
	return einvoice
}

func TestCreateEInvoiceStartsPendingCompliance(t *testing.T) {
	f := newFixture(t)

	einvoice, err := f.einvoiceSvc.CreateEInvoice(context.Background(), &CreateEInvoiceInput{
		CustomerID: &f.customerID,
		Items:      []LineItemInput{testLine(f.itemID)},
	})
	require.NoError(t, err)

	assert.Equal(t, "EIN-000001", einvoice.Number)
	assert.Equal(t, enum.ComplianceStatusPending, einvoice.ZATCAStatus)
	assert.Nil(t, einvoice.ZATCAReference)
}

func TestSubmitToZATCAClearance(t *testing.T) {
	f := newFixture(t)
	einvoice := approvedEInvoice(t, f)

	cleared, err := f.einvoiceSvc.SubmitToZATCA(context.Background(), einvoice.ID)
	require.NoError(t, err)

	assert.Equal(t, enum.ComplianceStatusApproved, cleared.ZATCAStatus)
	require.NotNil(t, cleared.ZATCAReference)
	assert.Equal(t, "ZATCA-REF-1", *cleared.ZATCAReference)
	require.NotNil(t, cleared.ZATCAHash)
	assert.NotNil(t, cleared.SubmittedAt)
	assert.Equal(t, 1, f.zatca.calls)

	// Clearance unlocks the path to sent
	sent, err := f.einvoiceSvc.ChangeStatus(context.Background(), &ChangeStatusInput{
		DocumentID: einvoice.ID,
		Target:     enum.DocumentStatusSent,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.DocumentStatusSent, sent.Status)
}

func TestEInvoiceSentBlockedBeforeClearance(t *testing.T) {
	f := newFixture(t)
	einvoice := approvedEInvoice(t, f)

	_, err := f.einvoiceSvc.ChangeStatus(context.Background(), &ChangeStatusInput{
		DocumentID: einvoice.ID,
		Target:     enum.DocumentStatusSent,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition), "err = %v", err)
}

func TestSubmitRequiresApprovedStatus(t *testing.T) {
	f := newFixture(t)

	einvoice, err := f.einvoiceSvc.CreateEInvoice(context.Background(), &CreateEInvoiceInput{
		CustomerID: &f.customerID,
		Items:      []LineItemInput{testLine(f.itemID)},
	})
	require.NoError(t, err)

	_, err = f.einvoiceSvc.SubmitToZATCA(context.Background(), einvoice.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition), "err = %v", err)
	assert.Equal(t, 0, f.zatca.calls)
}

func TestSubmitRefusedWhenAlreadySubmitted(t *testing.T) {
	f := newFixture(t)
	einvoice := approvedEInvoice(t, f)

	_, err := f.einvoiceSvc.SubmitToZATCA(context.Background(), einvoice.ID)
	require.NoError(t, err)

	_, err = f.einvoiceSvc.SubmitToZATCA(context.Background(), einvoice.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition), "err = %v", err)
	assert.Equal(t, 1, f.zatca.calls)
}

func TestSubmitWithoutReferenceLeavesStatePending(t *testing.T) {
	f := newFixture(t)
	einvoice := approvedEInvoice(t, f)
	f.zatca.result = &zatca.SubmissionResult{ReferenceID: "", Cleared: true}

	_, err := f.einvoiceSvc.SubmitToZATCA(context.Background(), einvoice.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindComplianceIncomplete), "err = %v", err)

	stored, err := f.einvoiceSvc.GetEInvoice(context.Background(), einvoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ComplianceStatusPending, stored.ZATCAStatus)
	assert.Nil(t, stored.ZATCAReference)
	assert.Nil(t, stored.SubmittedAt)
}

func TestSubmitRejectionAndRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	einvoice := approvedEInvoice(t, f)
	f.zatca.result = &zatca.SubmissionResult{
		ReferenceID:     "ZATCA-REF-9",
		InvoiceHash:     "hash-9",
		Cleared:         false,
		RejectionReason: "buyer VAT number mismatch",
	}

	rejected, err := f.einvoiceSvc.SubmitToZATCA(ctx, einvoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ComplianceStatusRejected, rejected.ZATCAStatus)
	require.NotNil(t, rejected.ZATCARejectionReason)
	assert.Equal(t, "buyer VAT number mismatch", *rejected.ZATCARejectionReason)

	// Retry clears the submission artifacts and returns to pending
	reset, err := f.einvoiceSvc.RetrySubmission(ctx, einvoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ComplianceStatusPending, reset.ZATCAStatus)
	assert.Nil(t, reset.ZATCAReference)
	assert.Nil(t, reset.SubmittedAt)

	f.zatca.result = &zatca.SubmissionResult{ReferenceID: "ZATCA-REF-10", Cleared: true}
	cleared, err := f.einvoiceSvc.SubmitToZATCA(ctx, einvoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ComplianceStatusApproved, cleared.ZATCAStatus)
}

func TestRetryRequiresRejectedSubmission(t *testing.T) {
	f := newFixture(t)
	einvoice := approvedEInvoice(t, f)

	_, err := f.einvoiceSvc.RetrySubmission(context.Background(), einvoice.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition), "err = %v", err)
}

func TestSubmitClientFailureIsBadGateway(t *testing.T) {
	f := newFixture(t)
	einvoice := approvedEInvoice(t, f)
	f.zatca.err = errors.New("connection refused")

	_, err := f.einvoiceSvc.SubmitToZATCA(context.Background(), einvoice.ID)
	require.Error(t, err)
	assert.Equal(t, 502, apperror.GetAppError(err).Code)

	// Nothing was recorded
	stored, err := f.einvoiceSvc.GetEInvoice(context.Background(), einvoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ComplianceStatusPending, stored.ZATCAStatus)
}
