package zatca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceSnapshot is the finalized e-invoice data submitted to the tax
// authority for clearance. It is a read-only copy; the compliance state
// machine consumes the result and never constructs it.
type InvoiceSnapshot struct {
	InvoiceID       string              `json:"invoice_id"`
	Number          string              `json:"number"`
	IssueDate       time.Time           `json:"issue_date"`
	SellerName      string              `json:"seller_name"`
	SellerVATNumber string              `json:"seller_vat_number"`
	BuyerName       string              `json:"buyer_name"`
	BuyerVATNumber  string              `json:"buyer_vat_number,omitempty"`
	Currency        string              `json:"currency"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	VATAmount       decimal.Decimal     `json:"vat_amount"`
	Total           decimal.Decimal     `json:"total"`
	Lines           []LineSnapshot      `json:"lines"`
}

// LineSnapshot is a single line of the submitted invoice.
type LineSnapshot struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Total       decimal.Decimal `json:"total"`
}

// SubmissionResult is the tax authority's answer to a clearance request.
// An empty ReferenceID on a non-error result means the submission is
// incomplete and must not advance the compliance state machine.
type SubmissionResult struct {
	ReferenceID     string `json:"reference_id"`
	InvoiceHash     string `json:"invoice_hash"`
	Cleared         bool   `json:"cleared"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// Client submits finalized e-invoices to the tax authority.
type Client interface {
	Submit(ctx context.Context, snapshot InvoiceSnapshot) (*SubmissionResult, error)
}

// Config holds tax-authority connection settings.
type Config struct {
	Env      string // sandbox or production
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// --- HTTP client (production) ---

type httpClient struct {
	cfg    Config
	client *http.Client
}

// NewHTTPClient creates a client that talks to the real clearance API.
func NewHTTPClient(cfg Config) Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) Submit(ctx context.Context, snapshot InvoiceSnapshot) (*SubmissionResult, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("zatca: failed to encode invoice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/invoices/clearance", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("zatca: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zatca: clearance request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("zatca: clearance API returned status %d", resp.StatusCode)
	}

	var result SubmissionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("zatca: failed to decode clearance response: %w", err)
	}
	return &result, nil
}
