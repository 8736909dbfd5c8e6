package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DocumentType discriminates the concrete document variants. It is also the
// polymorphic owner type on document line items.
type DocumentType string

const (
	DocumentTypeInvoice        DocumentType = "invoices"
	DocumentTypeEInvoice       DocumentType = "einvoices"
	DocumentTypeReceiptVoucher DocumentType = "receipt_vouchers"
	DocumentTypeQuotation      DocumentType = "quotations"
)

func (t DocumentType) String() string {
	return string(t)
}

// NumberPrefix returns the document-number prefix for the type.
func (t DocumentType) NumberPrefix() string {
	switch t {
	case DocumentTypeInvoice:
		return "INV"
	case DocumentTypeEInvoice:
		return "EIN"
	case DocumentTypeReceiptVoucher:
		return "RV"
	case DocumentTypeQuotation:
		return "QT"
	}
	return "DOC"
}

func (t DocumentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *DocumentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = DocumentType(str)
	return nil
}

func (t DocumentType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *DocumentType) Scan(value interface{}) error {
	if value == nil {
		*t = DocumentTypeInvoice
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = DocumentType(v)
	case []byte:
		*t = DocumentType(string(v))
	}
	return nil
}
