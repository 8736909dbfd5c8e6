package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/scrapdocs/scrapdocs-api/pkg/zatca"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

// --- line items ---

type fakeLineRepo struct {
	items map[uuid.UUID]entity.DocumentItem
	order []uuid.UUID
}

func newFakeLineRepo() *fakeLineRepo {
	return &fakeLineRepo{items: make(map[uuid.UUID]entity.DocumentItem)}
}

func (r *fakeLineRepo) Create(_ context.Context, item *entity.DocumentItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = *item
	r.order = append(r.order, item.ID)
	return nil
}

func (r *fakeLineRepo) CreateBatch(ctx context.Context, items []entity.DocumentItem) error {
	for i := range items {
		if err := r.Create(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeLineRepo) Update(_ context.Context, item *entity.DocumentItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return apperror.NewNotFoundError("Line item")
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeLineRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.DocumentItem, error) {
	if item, ok := r.items[id]; ok {
		c := item
		return &c, nil
	}
	return nil, nil
}

func (r *fakeLineRepo) GetByDocument(_ context.Context, docType enum.DocumentType, documentID uuid.UUID) ([]entity.DocumentItem, error) {
	var out []entity.DocumentItem
	for _, id := range r.order {
		item, ok := r.items[id]
		if !ok {
			continue
		}
		if item.DocumentType == docType && item.DocumentID == documentID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeLineRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *fakeLineRepo) DeleteByDocument(_ context.Context, docType enum.DocumentType, documentID uuid.UUID) error {
	for id, item := range r.items {
		if item.DocumentType == docType && item.DocumentID == documentID {
			delete(r.items, id)
		}
	}
	return nil
}

// --- invoices ---

type fakeInvoiceRepo struct {
	byID  map[uuid.UUID]entity.Invoice
	lines *fakeLineRepo
	seq   int
}

func newFakeInvoiceRepo(lines *fakeLineRepo) *fakeInvoiceRepo {
	return &fakeInvoiceRepo{byID: make(map[uuid.UUID]entity.Invoice), lines: lines}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	r.byID[invoice.ID] = *invoice
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	if invoice, ok := r.byID[id]; ok {
		c := invoice
		return &c, nil
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := r.GetByID(ctx, id)
	if err != nil || invoice == nil {
		return invoice, err
	}
	invoice.Items, _ = r.lines.GetByDocument(ctx, enum.DocumentTypeInvoice, id)
	return invoice, nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, invoice *entity.Invoice, expectedUpdatedAt time.Time) error {
	stored, ok := r.byID[invoice.ID]
	if !ok {
		return apperror.NewNotFoundError("Invoice")
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return apperror.ErrStaleWrite
	}
	r.byID[invoice.ID] = *invoice
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, _ *repository.DocumentFilterParams) ([]entity.Invoice, int64, error) {
	out := make([]entity.Invoice, 0, len(r.byID))
	for _, invoice := range r.byID {
		out = append(out, invoice)
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvoiceRepo) NextSequence(_ context.Context) (int, error) {
	r.seq++
	return r.seq, nil
}

// --- e-invoices ---

type fakeEInvoiceRepo struct {
	byID  map[uuid.UUID]entity.EInvoice
	lines *fakeLineRepo
	seq   int
}

func newFakeEInvoiceRepo(lines *fakeLineRepo) *fakeEInvoiceRepo {
	return &fakeEInvoiceRepo{byID: make(map[uuid.UUID]entity.EInvoice), lines: lines}
}

func (r *fakeEInvoiceRepo) Create(_ context.Context, einvoice *entity.EInvoice) error {
	if einvoice.ID == uuid.Nil {
		einvoice.ID = uuid.New()
	}
	r.byID[einvoice.ID] = *einvoice
	return nil
}

func (r *fakeEInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.EInvoice, error) {
	if einvoice, ok := r.byID[id]; ok {
		c := einvoice
		return &c, nil
	}
	return nil, nil
}

func (r *fakeEInvoiceRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.EInvoice, error) {
	einvoice, err := r.GetByID(ctx, id)
	if err != nil || einvoice == nil {
		return einvoice, err
	}
	einvoice.Items, _ = r.lines.GetByDocument(ctx, enum.DocumentTypeEInvoice, id)
	return einvoice, nil
}

func (r *fakeEInvoiceRepo) Update(_ context.Context, einvoice *entity.EInvoice, expectedUpdatedAt time.Time) error {
	stored, ok := r.byID[einvoice.ID]
	if !ok {
		return apperror.NewNotFoundError("E-invoice")
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return apperror.ErrStaleWrite
	}
	r.byID[einvoice.ID] = *einvoice
	return nil
}

func (r *fakeEInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeEInvoiceRepo) List(_ context.Context, _ *repository.DocumentFilterParams) ([]entity.EInvoice, int64, error) {
	out := make([]entity.EInvoice, 0, len(r.byID))
	for _, einvoice := range r.byID {
		out = append(out, einvoice)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEInvoiceRepo) NextSequence(_ context.Context) (int, error) {
	r.seq++
	return r.seq, nil
}

// --- receipt vouchers ---

type fakeVoucherRepo struct {
	byID  map[uuid.UUID]entity.ReceiptVoucher
	lines *fakeLineRepo
	seq   int
}

func newFakeVoucherRepo(lines *fakeLineRepo) *fakeVoucherRepo {
	return &fakeVoucherRepo{byID: make(map[uuid.UUID]entity.ReceiptVoucher), lines: lines}
}

func (r *fakeVoucherRepo) Create(_ context.Context, voucher *entity.ReceiptVoucher) error {
	if voucher.ID == uuid.Nil {
		voucher.ID = uuid.New()
	}
	r.byID[voucher.ID] = *voucher
	return nil
}

func (r *fakeVoucherRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ReceiptVoucher, error) {
	if voucher, ok := r.byID[id]; ok {
		c := voucher
		return &c, nil
	}
	return nil, nil
}

func (r *fakeVoucherRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.ReceiptVoucher, error) {
	voucher, err := r.GetByID(ctx, id)
	if err != nil || voucher == nil {
		return voucher, err
	}
	voucher.Items, _ = r.lines.GetByDocument(ctx, enum.DocumentTypeReceiptVoucher, id)
	return voucher, nil
}

func (r *fakeVoucherRepo) Update(_ context.Context, voucher *entity.ReceiptVoucher, expectedUpdatedAt time.Time) error {
	stored, ok := r.byID[voucher.ID]
	if !ok {
		return apperror.NewNotFoundError("Receipt voucher")
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return apperror.ErrStaleWrite
	}
	r.byID[voucher.ID] = *voucher
	return nil
}

func (r *fakeVoucherRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeVoucherRepo) List(_ context.Context, _ *repository.DocumentFilterParams) ([]entity.ReceiptVoucher, int64, error) {
	out := make([]entity.ReceiptVoucher, 0, len(r.byID))
	for _, voucher := range r.byID {
		out = append(out, voucher)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVoucherRepo) NextSequence(_ context.Context) (int, error) {
	r.seq++
	return r.seq, nil
}

// --- quotations ---

type fakeQuotationRepo struct {
	byID  map[uuid.UUID]entity.Quotation
	lines *fakeLineRepo
	seq   int
}

func newFakeQuotationRepo(lines *fakeLineRepo) *fakeQuotationRepo {
	return &fakeQuotationRepo{byID: make(map[uuid.UUID]entity.Quotation), lines: lines}
}

func (r *fakeQuotationRepo) Create(_ context.Context, quotation *entity.Quotation) error {
	if quotation.ID == uuid.Nil {
		quotation.ID = uuid.New()
	}
	r.byID[quotation.ID] = *quotation
	return nil
}

func (r *fakeQuotationRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Quotation, error) {
	if quotation, ok := r.byID[id]; ok {
		c := quotation
		return &c, nil
	}
	return nil, nil
}

func (r *fakeQuotationRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := r.GetByID(ctx, id)
	if err != nil || quotation == nil {
		return quotation, err
	}
	quotation.Items, _ = r.lines.GetByDocument(ctx, enum.DocumentTypeQuotation, id)
	return quotation, nil
}

func (r *fakeQuotationRepo) Update(_ context.Context, quotation *entity.Quotation, expectedUpdatedAt time.Time) error {
	stored, ok := r.byID[quotation.ID]
	if !ok {
		return apperror.NewNotFoundError("Quotation")
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return apperror.ErrStaleWrite
	}
	r.byID[quotation.ID] = *quotation
	return nil
}

func (r *fakeQuotationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeQuotationRepo) List(_ context.Context, _ *repository.DocumentFilterParams) ([]entity.Quotation, int64, error) {
	out := make([]entity.Quotation, 0, len(r.byID))
	for _, quotation := range r.byID {
		out = append(out, quotation)
	}
	return out, int64(len(out)), nil
}

func (r *fakeQuotationRepo) NextSequence(_ context.Context) (int, error) {
	r.seq++
	return r.seq, nil
}

// --- catalog ---

type fakeItemRepo struct {
	byID map[uuid.UUID]entity.ScrapItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{byID: make(map[uuid.UUID]entity.ScrapItem)}
}

func (r *fakeItemRepo) Create(_ context.Context, item *entity.ScrapItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.byID[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ScrapItem, error) {
	if item, ok := r.byID[id]; ok {
		c := item
		return &c, nil
	}
	return nil, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *entity.ScrapItem) error {
	r.byID[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeItemRepo) List(_ context.Context, _ *repository.ScrapItemFilterParams) ([]entity.ScrapItem, int64, error) {
	out := make([]entity.ScrapItem, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	return out, int64(len(out)), nil
}

// --- customers ---

type fakeCustomerRepo struct {
	byID map[uuid.UUID]entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byID: make(map[uuid.UUID]entity.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.byID[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	if customer, ok := r.byID[id]; ok {
		c := customer
		return &c, nil
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	r.byID[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	out := make([]entity.Customer, 0, len(r.byID))
	for _, customer := range r.byID {
		out = append(out, customer)
	}
	return out, int64(len(out)), nil
}

// --- settings ---

type fakeSettingsRepo struct {
	rows map[string][]byte
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{rows: make(map[string][]byte)}
}

func (r *fakeSettingsRepo) Get(_ context.Context, key string) (*entity.Setting, error) {
	if value, ok := r.rows[key]; ok {
		return &entity.Setting{Key: key, Value: value}, nil
	}
	return nil, nil
}

func (r *fakeSettingsRepo) GetAll(_ context.Context) ([]entity.Setting, error) {
	out := make([]entity.Setting, 0, len(r.rows))
	for key, value := range r.rows {
		out = append(out, entity.Setting{Key: key, Value: value})
	}
	return out, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, setting *entity.Setting) error {
	value := make([]byte, len(setting.Value))
	copy(value, setting.Value)
	r.rows[setting.Key] = value
	return nil
}

func (r *fakeSettingsRepo) Delete(_ context.Context, key string) error {
	delete(r.rows, key)
	return nil
}

// --- tax authority ---

type fakeZATCAClient struct {
	result *zatca.SubmissionResult
	err    error
	calls  int
}

func (c *fakeZATCAClient) Submit(_ context.Context, _ zatca.InvoiceSnapshot) (*zatca.SubmissionResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

// --- fixture ---

type fixture struct {
	lines      *fakeLineRepo
	invoices   *fakeInvoiceRepo
	einvoices  *fakeEInvoiceRepo
	vouchers   *fakeVoucherRepo
	quotations *fakeQuotationRepo
	catalog    *fakeItemRepo
	customers  *fakeCustomerRepo
	zatca      *fakeZATCAClient

	settings     *SettingsService
	invoiceSvc   *InvoiceService
	einvoiceSvc  *EInvoiceService
	quotationSvc *QuotationService
	receiptSvc   *ReceiptVoucherService

	customerID uuid.UUID
	itemID     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		lines:     newFakeLineRepo(),
		catalog:   newFakeItemRepo(),
		customers: newFakeCustomerRepo(),
		zatca: &fakeZATCAClient{result: &zatca.SubmissionResult{
			ReferenceID: "ZATCA-REF-1",
			InvoiceHash: "hash-1",
			Cleared:     true,
		}},
	}
	f.invoices = newFakeInvoiceRepo(f.lines)
	f.einvoices = newFakeEInvoiceRepo(f.lines)
	f.vouchers = newFakeVoucherRepo(f.lines)
	f.quotations = newFakeQuotationRepo(f.lines)

	f.settings = NewSettingsService(newFakeSettingsRepo())
	require.NoError(t, f.settings.Load(ctx))

	customer := &entity.Customer{
		ID:        uuid.New(),
		Name:      "Al-Noor Metals",
		VATNumber: strPtr("310122393500003"),
		Email:     strPtr("accounts@alnoor.example"),
		Country:   "Saudi Arabia",
		IsActive:  true,
	}
	require.NoError(t, f.customers.Create(ctx, customer))
	f.customerID = customer.ID

	item := &entity.ScrapItem{
		ID:           uuid.New(),
		Name:         "Copper Wire",
		Category:     enum.MetalCategoryCopper,
		Unit:         "kg",
		PricePerUnit: dec("28.50"),
		CurrentStock: dec("1000"),
		IsActive:     true,
	}
	require.NoError(t, f.catalog.Create(ctx, item))
	f.itemID = item.ID

	f.invoiceSvc = NewInvoiceService(f.invoices, f.lines, f.catalog, f.customers, nil, f.settings)
	f.einvoiceSvc = NewEInvoiceService(f.einvoices, f.lines, f.catalog, f.customers, f.zatca, f.settings)
	f.quotationSvc = NewQuotationService(f.quotations, f.invoices, f.lines, f.catalog, f.customers)
	f.receiptSvc = NewReceiptVoucherService(f.vouchers, f.lines, f.catalog, f.customers)
	return f
}

// testLine is the standard line used across document tests:
// 10 kg at 5.00 with a 2.00 discount and 15% VAT totals 55.20.
func testLine(itemID uuid.UUID) LineItemInput {
	return LineItemInput{
		ItemID:    itemID,
		Quantity:  dec("10"),
		UnitPrice: dec("5.00"),
		Discount:  dec("2.00"),
		VATRate:   dec("0.15"),
	}
}
