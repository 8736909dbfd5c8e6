package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testClock() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func draftDocument() DocumentBase {
	customerID := uuid.New()
	return DocumentBase{
		ID:         uuid.New(),
		Number:     "INV-000001",
		IssueDate:  testClock(),
		CustomerID: &customerID,
		Currency:   "SAR",
		Status:     enum.DocumentStatusDraft,
		ItemCount:  1,
		Subtotal:   dec("100.00"),
		VATAmount:  dec("15.00"),
		Total:      dec("115.00"),
	}
}

func TestTransitionHappyPath(t *testing.T) {
	doc := draftDocument()
	now := testClock()

	for _, target := range []enum.DocumentStatus{
		enum.DocumentStatusPending,
		enum.DocumentStatusApproved,
		enum.DocumentStatusSent,
	} {
		now = now.Add(time.Second)
		require.NoError(t, doc.Transition(target, now))
		assert.Equal(t, target, doc.Status)
		assert.Equal(t, now, doc.UpdatedAt)
	}

	// Paid requires full payment.
	require.NoError(t, doc.ApplyPayment(dec("115.00"), now.Add(time.Second)))
	require.NoError(t, doc.Transition(enum.DocumentStatusPaid, now.Add(2*time.Second)))
	assert.Equal(t, enum.DocumentStatusPaid, doc.Status)
}

func TestTransitionSkippingStatesFails(t *testing.T) {
	doc := draftDocument()

	err := doc.Transition(enum.DocumentStatusApproved, testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
	assert.Equal(t, enum.DocumentStatusDraft, doc.Status)
}

func TestTransitionToPendingRequiresItemsAndCustomer(t *testing.T) {
	doc := draftDocument()
	doc.ItemCount = 0
	err := doc.Transition(enum.DocumentStatusPending, testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))

	doc = draftDocument()
	doc.CustomerID = nil
	err = doc.Transition(enum.DocumentStatusPending, testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestTransitionToPaidRequiresFullPayment(t *testing.T) {
	doc := draftDocument()
	doc.Status = enum.DocumentStatusSent
	doc.PaidAmount = dec("100.00")

	err := doc.Transition(enum.DocumentStatusPaid, testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestCancelFromAnyActiveState(t *testing.T) {
	for _, status := range []enum.DocumentStatus{
		enum.DocumentStatusDraft,
		enum.DocumentStatusPending,
		enum.DocumentStatusApproved,
		enum.DocumentStatusSent,
	} {
		doc := draftDocument()
		doc.Status = status
		require.NoError(t, doc.Transition(enum.DocumentStatusCancelled, testClock()), "from %s", status)
		assert.Equal(t, enum.DocumentStatusCancelled, doc.Status)
	}
}

func TestCancelPaidFails(t *testing.T) {
	doc := draftDocument()
	doc.Status = enum.DocumentStatusPaid

	err := doc.Transition(enum.DocumentStatusCancelled, testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))

	doc.Status = enum.DocumentStatusCancelled
	err = doc.Transition(enum.DocumentStatusCancelled, testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestCheckEditable(t *testing.T) {
	doc := draftDocument()
	assert.NoError(t, doc.CheckEditable())

	doc.Status = enum.DocumentStatusPending
	assert.NoError(t, doc.CheckEditable())

	for _, status := range []enum.DocumentStatus{
		enum.DocumentStatusApproved,
		enum.DocumentStatusSent,
		enum.DocumentStatusPaid,
		enum.DocumentStatusCancelled,
	} {
		doc.Status = status
		err := doc.CheckEditable()
		assert.True(t, apperror.IsKind(err, apperror.KindDocumentLocked), "status %s", status)
	}
}

func TestApplyPaymentAccumulates(t *testing.T) {
	doc := draftDocument()
	doc.Status = enum.DocumentStatusSent

	require.NoError(t, doc.ApplyPayment(dec("50.00"), testClock()))
	require.NoError(t, doc.ApplyPayment(dec("65.00"), testClock()))
	assert.True(t, doc.PaidAmount.Equal(dec("115.00")))
	assert.True(t, doc.Outstanding().IsZero())

	err := doc.ApplyPayment(dec("0"), testClock())
	assert.Error(t, err)
	err = doc.ApplyPayment(dec("-5"), testClock())
	assert.Error(t, err)
}

func TestRecalculate(t *testing.T) {
	doc := draftDocument()
	items := []DocumentItem{
		{
			Quantity:  dec("10"),
			UnitPrice: dec("5.00"),
			Discount:  dec("2.00"),
			VATRate:   dec("0.15"),
		},
		{
			Quantity:  dec("10"),
			UnitPrice: dec("5.00"),
			Discount:  dec("2.00"),
			VATRate:   dec("0.15"),
		},
	}

	require.NoError(t, doc.Recalculate(items, testClock()))
	assert.Equal(t, 2, doc.ItemCount)
	assert.True(t, doc.Subtotal.Equal(dec("100.00")), "subtotal = %s", doc.Subtotal)
	assert.True(t, doc.TotalDiscount.Equal(dec("4.00")))
	assert.True(t, doc.VATAmount.Equal(dec("14.40")))
	assert.True(t, doc.Total.Equal(dec("110.40")))
}

func TestRecalculateEmptyYieldsZeroTotals(t *testing.T) {
	doc := draftDocument()
	require.NoError(t, doc.Recalculate(nil, testClock()))
	assert.Equal(t, 0, doc.ItemCount)
	assert.True(t, doc.Subtotal.IsZero())
	assert.True(t, doc.Total.IsZero())
}

func TestRecalculateInvalidLine(t *testing.T) {
	doc := draftDocument()
	items := []DocumentItem{{Quantity: dec("0"), UnitPrice: dec("5.00")}}

	err := doc.Recalculate(items, testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidLineItem))
}

func TestTouchIsMonotonic(t *testing.T) {
	doc := draftDocument()
	now := testClock()
	doc.Touch(now)
	doc.Touch(now.Add(-time.Hour))
	assert.Equal(t, now, doc.UpdatedAt)
}

func TestInvoiceOverdueIsDerived(t *testing.T) {
	invoice := Invoice{DocumentBase: draftDocument(), DueDate: testClock().AddDate(0, 0, 7)}
	invoice.Status = enum.DocumentStatusSent

	assert.False(t, invoice.IsOverdue(testClock()))
	assert.True(t, invoice.IsOverdue(testClock().AddDate(0, 0, 8)))

	// Fully paid documents are never overdue.
	invoice.PaidAmount = invoice.Total
	assert.False(t, invoice.IsOverdue(testClock().AddDate(0, 0, 8)))

	// Draft and cancelled documents are never overdue either.
	invoice.PaidAmount = decimal.Zero
	invoice.Status = enum.DocumentStatusDraft
	assert.False(t, invoice.IsOverdue(testClock().AddDate(0, 0, 8)))
	invoice.Status = enum.DocumentStatusCancelled
	assert.False(t, invoice.IsOverdue(testClock().AddDate(0, 0, 8)))
}

func TestInvoiceValidateDueDate(t *testing.T) {
	invoice := Invoice{DocumentBase: draftDocument(), DueDate: testClock().AddDate(0, 0, -1)}
	assert.Error(t, invoice.Validate())

	invoice.DueDate = testClock()
	assert.NoError(t, invoice.Validate())
}

func approvedEInvoice() EInvoice {
	e := EInvoice{DocumentBase: draftDocument(), DueDate: testClock().AddDate(0, 0, 30)}
	e.Status = enum.DocumentStatusApproved
	e.ZATCAStatus = enum.ComplianceStatusPending
	return e
}

func TestEInvoiceSendRequiresClearance(t *testing.T) {
	e := approvedEInvoice()

	err := e.Transition(enum.DocumentStatusSent, testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
	assert.Equal(t, enum.DocumentStatusApproved, e.Status)

	require.NoError(t, e.RecordSubmission("REF-123", "hash", testClock()))
	require.NoError(t, e.ApproveCompliance(testClock()))
	require.NoError(t, e.Transition(enum.DocumentStatusSent, testClock()))
	assert.Equal(t, enum.DocumentStatusSent, e.Status)
}

func TestEInvoiceRecordSubmission(t *testing.T) {
	e := approvedEInvoice()

	require.NoError(t, e.RecordSubmission("REF-123", "hash-abc", testClock()))
	assert.Equal(t, enum.ComplianceStatusSubmitted, e.ZATCAStatus)
	require.NotNil(t, e.ZATCAReference)
	assert.Equal(t, "REF-123", *e.ZATCAReference)
	require.NotNil(t, e.SubmittedAt)

	// A second submission from submitted state is refused.
	err := e.RecordSubmission("REF-456", "other", testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestEInvoiceSubmissionWithoutReference(t *testing.T) {
	e := approvedEInvoice()

	err := e.RecordSubmission("", "", testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindComplianceIncomplete))
	assert.Equal(t, enum.ComplianceStatusPending, e.ZATCAStatus)
	assert.Nil(t, e.SubmittedAt)
}

func TestEInvoiceSubmissionRequiresApprovedStatus(t *testing.T) {
	e := approvedEInvoice()
	e.Status = enum.DocumentStatusDraft

	err := e.RecordSubmission("REF-123", "hash", testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestEInvoiceRejectionAndRetry(t *testing.T) {
	e := approvedEInvoice()
	require.NoError(t, e.RecordSubmission("REF-123", "hash", testClock()))
	require.NoError(t, e.RejectCompliance("invalid seller VAT number", testClock()))

	assert.Equal(t, enum.ComplianceStatusRejected, e.ZATCAStatus)
	require.NotNil(t, e.ZATCARejectionReason)

	// Reset clears the submission artifacts and allows another attempt.
	require.NoError(t, e.ResetCompliance(testClock()))
	assert.Equal(t, enum.ComplianceStatusPending, e.ZATCAStatus)
	assert.Nil(t, e.ZATCAReference)
	assert.Nil(t, e.SubmittedAt)

	require.NoError(t, e.RecordSubmission("REF-789", "hash2", testClock()))
	require.NoError(t, e.ApproveCompliance(testClock()))
	assert.Equal(t, enum.ComplianceStatusApproved, e.ZATCAStatus)
}

func TestQuotationExpiry(t *testing.T) {
	q := Quotation{DocumentBase: draftDocument(), ValidUntil: testClock().AddDate(0, 0, 14)}
	assert.False(t, q.IsExpired(testClock()))
	assert.True(t, q.IsExpired(testClock().AddDate(0, 0, 15)))
}

func TestQuotationConversionIsOneWay(t *testing.T) {
	q := Quotation{DocumentBase: draftDocument()}
	q.Status = enum.DocumentStatusApproved
	invoiceID := uuid.New()

	require.NoError(t, q.MarkConverted(invoiceID, testClock()))
	assert.True(t, q.ConvertedToInvoice)
	require.NotNil(t, q.InvoiceID)
	assert.Equal(t, invoiceID, *q.InvoiceID)

	err := q.MarkConverted(uuid.New(), testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindQuotationConverted))
	assert.Equal(t, invoiceID, *q.InvoiceID)
}

func TestConvertedQuotationIsLocked(t *testing.T) {
	q := Quotation{DocumentBase: draftDocument()}
	require.NoError(t, q.CheckEditable())

	q.ConvertedToInvoice = true
	err := q.CheckEditable()
	assert.True(t, apperror.IsKind(err, apperror.KindDocumentLocked))
}

func TestCancelledQuotationCannotConvert(t *testing.T) {
	q := Quotation{DocumentBase: draftDocument()}
	q.Status = enum.DocumentStatusCancelled

	err := q.MarkConverted(uuid.New(), testClock())
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestReceiptVoucherValidate(t *testing.T) {
	v := ReceiptVoucher{
		DocumentBase:  draftDocument(),
		PaymentMethod: enum.PaymentMethodCash,
		ReceivedFrom:  "Walk-in customer",
	}
	assert.NoError(t, v.Validate())

	v.ReceivedFrom = ""
	assert.Error(t, v.Validate())

	v.ReceivedFrom = "Walk-in customer"
	v.PaymentMethod = enum.PaymentMethod("barter")
	assert.Error(t, v.Validate())
}
