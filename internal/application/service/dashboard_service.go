package service

import (
	"context"
	"time"

	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	statsRepo repository.DocumentStatsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(statsRepo repository.DocumentStatsRepository) *DashboardService {
	return &DashboardService{statsRepo: statsRepo}
}

// DashboardStats represents dashboard statistics. The overdue count is
// derived against the request instant, never read from a stored column.
type DashboardStats struct {
	TotalCustomers  int64                        `json:"total_customers"`
	TotalItems      int64                        `json:"total_items"`
	Revenue         decimal.Decimal              `json:"revenue"`
	Outstanding     decimal.Decimal              `json:"outstanding"`
	OverdueInvoices int64                        `json:"overdue_invoices"`
	Invoices        map[string]int64             `json:"invoices"`
	EInvoices       map[string]int64             `json:"einvoices"`
	ReceiptVouchers map[string]int64             `json:"receipt_vouchers"`
	Quotations      map[string]int64             `json:"quotations"`
	GeneratedAt     time.Time                    `json:"generated_at"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := time.Now().UTC()
	stats := &DashboardStats{GeneratedAt: now}

	customerCount, err := s.statsRepo.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalCustomers = customerCount

	itemCount, err := s.statsRepo.CountItems(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalItems = itemCount

	aggregates, err := s.statsRepo.InvoiceAggregates(ctx, now)
	if err != nil {
		return nil, err
	}
	stats.Revenue = aggregates.Revenue
	stats.Outstanding = aggregates.Outstanding
	stats.OverdueInvoices = aggregates.OverdueCount

	counts := []struct {
		docType enum.DocumentType
		dest    *map[string]int64
	}{
		{enum.DocumentTypeInvoice, &stats.Invoices},
		{enum.DocumentTypeEInvoice, &stats.EInvoices},
		{enum.DocumentTypeReceiptVoucher, &stats.ReceiptVouchers},
		{enum.DocumentTypeQuotation, &stats.Quotations},
	}
	for _, c := range counts {
		results, err := s.statsRepo.StatusCounts(ctx, c.docType)
		if err != nil {
			return nil, err
		}
		byStatus := make(map[string]int64, len(results))
		for _, result := range results {
			byStatus[result.Status.String()] = result.Count
		}
		*c.dest = byStatus
	}

	return stats, nil
}
