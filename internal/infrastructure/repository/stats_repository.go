package repository

import (
	"context"
	"time"

	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	domainRepo "github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type documentStatsRepository struct {
	db *gorm.DB
}

// NewDocumentStatsRepository creates a new dashboard aggregation repository
func NewDocumentStatsRepository(db *gorm.DB) domainRepo.DocumentStatsRepository {
	return &documentStatsRepository{db: db}
}

func (r *documentStatsRepository) StatusCounts(ctx context.Context, docType enum.DocumentType) ([]domainRepo.StatusCountResult, error) {
	var results []domainRepo.StatusCountResult
	err := r.db.WithContext(ctx).
		Table(string(docType)).
		Select("status, COUNT(*) as count").
		Where("deleted_at IS NULL").
		Group("status").
		Scan(&results).Error
	return results, err
}

type invoiceAggregatesRow struct {
	Revenue      decimal.Decimal
	Outstanding  decimal.Decimal
	OverdueCount int64
}

func (r *documentStatsRepository) InvoiceAggregates(ctx context.Context, asOf time.Time) (*domainRepo.InvoiceAggregatesResult, error) {
	result := &domainRepo.InvoiceAggregatesResult{
		Revenue:     decimal.Zero,
		Outstanding: decimal.Zero,
	}

	for _, table := range []string{"invoices", "einvoices"} {
		var row invoiceAggregatesRow
		err := r.db.WithContext(ctx).
			Table(table).
			Select(`
				COALESCE(SUM(paid_amount), 0) as revenue,
				COALESCE(SUM(CASE WHEN status <> ? THEN total - paid_amount ELSE 0 END), 0) as outstanding,
				COUNT(CASE WHEN status IN (?, ?) AND due_date < ? AND paid_amount < total THEN 1 END) as overdue_count`,
				enum.DocumentStatusCancelled,
				enum.DocumentStatusApproved, enum.DocumentStatusSent, asOf,
			).
			Where("deleted_at IS NULL").
			Scan(&row).Error
		if err != nil {
			return nil, err
		}
		result.Revenue = result.Revenue.Add(row.Revenue)
		result.Outstanding = result.Outstanding.Add(row.Outstanding)
		result.OverdueCount += row.OverdueCount
	}

	return result, nil
}

func (r *documentStatsRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *documentStatsRepository) CountItems(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ScrapItem{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
