package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/scrapdocs/scrapdocs-api/pkg/logger"
	"github.com/scrapdocs/scrapdocs-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// PrinterService handles document formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	invoiceRepo repository.InvoiceRepository
	voucherRepo repository.ReceiptVoucherRepository
	settings    *SettingsService
	log         zerolog.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	invoiceRepo repository.InvoiceRepository,
	voucherRepo repository.ReceiptVoucherRepository,
	settings *SettingsService,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		invoiceRepo: invoiceRepo,
		voucherRepo: voucherRepo,
		settings:    settings,
		log:         logger.WithComponent("printer"),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Transport  string `json:"transport"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	transport := s.printer.Transport()
	return &PrinterStatus{
		Configured: transport != printer.TransportNone,
		Connected:  s.printer.IsConnected(),
		Transport:  string(transport),
	}
}

// Printout is the render model for a printed document.
// It is also returned to the handler so disabled-printer setups still get
// the formatted content as JSON.
type Printout struct {
	CompanyName string          `json:"company_name"`
	Address     string          `json:"address,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	VATNumber   string          `json:"vat_number,omitempty"`
	Title       string          `json:"title"`
	Number      string          `json:"number"`
	Date        string          `json:"date"`
	Customer    string          `json:"customer,omitempty"`
	Items       []PrintoutItem  `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	VAT         decimal.Decimal `json:"vat"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Due         decimal.Decimal `json:"due"`
	FooterText  string          `json:"footer_text,omitempty"`
}

// PrintoutItem is a single printed line.
type PrintoutItem struct {
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// TestPrint sends a test page to the printer.
func (s *PrinterService) TestPrint() (*Printout, error) {
	printout := &Printout{
		CompanyName: "PRINTER TEST",
		Address:     "Test Address",
		Phone:       "+966 00 000 0000",
		Title:       "TEST PAGE",
		Number:      "TEST-001",
		Date:        "Test Date",
		Items: []PrintoutItem{
			{Name: "Test Item 1", Unit: "kg", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
			{Name: "Test Item 2", Unit: "kg", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5), Total: decimal.NewFromInt(10)},
		},
		Subtotal: decimal.NewFromInt(20),
		Total:    decimal.NewFromInt(20),
		Paid:     decimal.NewFromInt(20),
	}

	data := s.formatPrintout(printout)
	if err := s.printer.Print(data); err != nil {
		return printout, fmt.Errorf("test print failed: %w", err)
	}

	return printout, nil
}

// PrintInvoice fetches an invoice (with items) and prints it.
func (s *PrinterService) PrintInvoice(ctx context.Context, id uuid.UUID) (*Printout, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	printout := s.buildPrintout("INVOICE", &invoice.DocumentBase, invoice.Items)
	data := s.formatPrintout(printout)
	if err := s.printer.Print(data); err != nil {
		s.log.Error().Err(err).Str("number", invoice.Number).Msg("Printer error")
		return printout, fmt.Errorf("failed to print invoice: %w", err)
	}
	return printout, nil
}

// PrintReceiptVoucher fetches a receipt voucher (with items) and prints it.
func (s *PrinterService) PrintReceiptVoucher(ctx context.Context, id uuid.UUID) (*Printout, error) {
	voucher, err := s.voucherRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Receipt voucher")
	}

	printout := s.buildPrintout("RECEIPT VOUCHER", &voucher.DocumentBase, voucher.Items)
	printout.Customer = voucher.ReceivedFrom
	data := s.formatPrintout(printout)
	if err := s.printer.Print(data); err != nil {
		s.log.Error().Err(err).Str("number", voucher.Number).Msg("Printer error")
		return printout, fmt.Errorf("failed to print receipt voucher: %w", err)
	}
	return printout, nil
}

func (s *PrinterService) buildPrintout(title string, base *entity.DocumentBase, items []entity.DocumentItem) *Printout {
	company := s.settings.CompanyProfile()
	prefs := s.settings.PrintPreferences()
	ui := s.settings.UIPreferences()

	name := company.Name
	if ui.Language == "ar" && company.NameArabic != "" {
		name = company.NameArabic
	}
	customer := base.CustomerName
	if ui.Language == "ar" && base.CustomerNameArabic != "" {
		customer = base.CustomerNameArabic
	}

	printout := &Printout{
		CompanyName: name,
		Address:     company.Address,
		Phone:       company.Phone,
		VATNumber:   company.VATNumber,
		Title:       title,
		Number:      base.Number,
		Date:        base.IssueDate.Format("2006-01-02"),
		Customer:    customer,
		Subtotal:    base.Subtotal,
		Discount:    base.TotalDiscount,
		VAT:         base.VATAmount,
		Total:       base.Total,
		Paid:        base.PaidAmount,
		Due:         base.Outstanding(),
		FooterText:  prefs.FooterText,
	}

	for _, item := range items {
		unit := "kg"
		if item.Item != nil && item.Item.Unit != "" {
			unit = item.Item.Unit
		}
		printout.Items = append(printout.Items, PrintoutItem{
			Name:      item.Description,
			Unit:      unit,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
	}
	return printout
}

// formatPrintout converts a Printout into ESC/POS bytes.
func (s *PrinterService) formatPrintout(p *Printout) []byte {
	width := printer.Width80mm
	if s.settings.PrintPreferences().PaperSize == "thermal_58mm" {
		width = printer.Width58mm
	}
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(p.CompanyName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if p.Address != "" {
		doc.Text(p.Address)
	}
	if p.Phone != "" {
		doc.Text(p.Phone)
	}
	if p.VATNumber != "" {
		doc.TextF("VAT No: %s", p.VATNumber)
	}

	doc.LineFeed().
		SetBold(true).
		Text(p.Title).
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Number:", p.Number).
		KeyValue("Date:", p.Date)
	if p.Customer != "" {
		doc.KeyValue("Customer:", p.Customer)
	}

	doc.Separator('-')

	for _, item := range p.Items {
		doc.ItemLine(item.Quantity.StringFixed(3), item.Unit, item.Name, item.Total.StringFixed(2))
		doc.TextF("  @ %s / %s", item.UnitPrice.StringFixed(2), item.Unit)
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", p.Subtotal.StringFixed(2))
	if p.Discount.IsPositive() {
		doc.KeyValue("Discount:", "-"+p.Discount.StringFixed(2))
	}
	if p.VAT.IsPositive() {
		doc.KeyValue("VAT:", p.VAT.StringFixed(2))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", p.Total.StringFixed(2)).
		SetBold(false)

	if p.Paid.IsPositive() {
		doc.KeyValue("Paid:", p.Paid.StringFixed(2))
	}
	if p.Due.IsPositive() {
		doc.KeyValue("Due:", p.Due.StringFixed(2))
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed()
	if p.FooterText != "" {
		doc.Text(p.FooterText)
	} else {
		doc.Text("Thank you for your business!")
	}
	doc.LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
