package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Precision is the number of minor-unit decimal places used for rounding.
// SAR has two (halalas).
const Precision = 2

// Calculation errors surfaced to callers as invalid line items.
var (
	ErrNonPositiveQuantity = errors.New("money: quantity must be greater than zero")
	ErrNegativeUnitPrice   = errors.New("money: unit price cannot be negative")
	ErrNegativeDiscount    = errors.New("money: discount cannot be negative")
	ErrNegativeVATRate     = errors.New("money: vat rate cannot be negative")
	ErrDiscountExceedsNet  = errors.New("money: discount exceeds line amount")
)

// Line is the input to a single line-item calculation.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	VATRate   decimal.Decimal // fraction, e.g. 0.15 for 15%
}

// LineAmounts holds the computed amounts for a single line.
// Gross is quantity * unit price before discount; Net is gross minus
// discount; Total is net plus VAT.
type LineAmounts struct {
	Gross decimal.Decimal
	Net   decimal.Decimal
	VAT   decimal.Decimal
	Total decimal.Decimal
}

// ComputeLine calculates the amounts for a single line item. Rounding is
// applied once, at line level, to the currency's minor-unit precision using
// round-half-up. Recomputing from the same inputs always yields identical
// amounts.
func ComputeLine(l Line) (LineAmounts, error) {
	if !l.Quantity.IsPositive() {
		return LineAmounts{}, ErrNonPositiveQuantity
	}
	if l.UnitPrice.IsNegative() {
		return LineAmounts{}, ErrNegativeUnitPrice
	}
	if l.Discount.IsNegative() {
		return LineAmounts{}, ErrNegativeDiscount
	}
	if l.VATRate.IsNegative() {
		return LineAmounts{}, ErrNegativeVATRate
	}

	gross := l.Quantity.Mul(l.UnitPrice).Round(Precision)
	net := gross.Sub(l.Discount)
	if net.IsNegative() {
		return LineAmounts{}, ErrDiscountExceedsNet
	}
	vat := net.Mul(l.VATRate).Round(Precision)

	return LineAmounts{
		Gross: gross,
		Net:   net,
		VAT:   vat,
		Total: net.Add(vat),
	}, nil
}

// Totals holds document-level aggregates over a set of line amounts.
type Totals struct {
	Subtotal      decimal.Decimal // sum of gross amounts, pre-discount and pre-tax
	TotalDiscount decimal.Decimal
	VATAmount     decimal.Decimal
	Total         decimal.Decimal
}

// ZeroTotals returns all-zero totals, the valid state of a document with no
// line items.
func ZeroTotals() Totals {
	return Totals{
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
		VATAmount:     decimal.Zero,
		Total:         decimal.Zero,
	}
}

// Aggregate folds per-line amounts and discounts into document totals.
// Amounts are already rounded at line level and are not re-rounded here.
func Aggregate(lines []LineAmounts, discounts []decimal.Decimal) Totals {
	t := ZeroTotals()
	for i, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.Gross)
		t.VATAmount = t.VATAmount.Add(l.VAT)
		if i < len(discounts) {
			t.TotalDiscount = t.TotalDiscount.Add(discounts[i])
		}
	}
	t.Total = t.Subtotal.Sub(t.TotalDiscount).Add(t.VATAmount)
	return t
}
