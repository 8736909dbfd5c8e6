package repository

import (
	"context"
	"time"

	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// StatusCountResult represents a document count for one lifecycle status
type StatusCountResult struct {
	Status enum.DocumentStatus
	Count  int64
}

// InvoiceAggregatesResult represents payment aggregates across invoices and
// e-invoices. Revenue sums paid amounts; outstanding sums unpaid balances on
// non-cancelled documents. OverdueCount is derived against the as-of instant
// and never persisted.
type InvoiceAggregatesResult struct {
	Revenue      decimal.Decimal
	Outstanding  decimal.Decimal
	OverdueCount int64
}

// DocumentStatsRepository defines interface for dashboard aggregation queries
type DocumentStatsRepository interface {
	// StatusCounts returns the per-status document counts for one variant table
	StatusCounts(ctx context.Context, docType enum.DocumentType) ([]StatusCountResult, error)

	// InvoiceAggregates returns revenue, outstanding balance and the overdue
	// count across invoices and e-invoices as of the given instant
	InvoiceAggregates(ctx context.Context, asOf time.Time) (*InvoiceAggregatesResult, error)

	// CountCustomers returns the number of active customers
	CountCustomers(ctx context.Context) (int64, error)

	// CountItems returns the number of active catalog items
	CountItems(ctx context.Context) (int64, error)
}
