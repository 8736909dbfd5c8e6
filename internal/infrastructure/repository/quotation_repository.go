package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	domainRepo "github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *gorm.DB) domainRepo.QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *entity.Quotation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(quotation).Error
}

func (r *quotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

func (r *quotationRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Item").
		First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

// Update commits the quotation only when the stored updated_at still matches
// the caller's expected version; otherwise the write is stale.
func (r *quotationRepository) Update(ctx context.Context, quotation *entity.Quotation, expectedUpdatedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Where("id = ? AND updated_at = ?", quotation.ID, expectedUpdatedAt).
		Select("*").Omit("id", "created_at", clause.Associations).
		Updates(quotation)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrStaleWrite
	}
	return nil
}

func (r *quotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Quotation{}, "id = ?", id).Error
}

func (r *quotationRepository) List(ctx context.Context, params *domainRepo.DocumentFilterParams) ([]entity.Quotation, int64, error) {
	var quotations []entity.Quotation
	var total int64

	query := applyDocumentFilters(r.db.WithContext(ctx).Model(&entity.Quotation{}), params)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&quotations).Error

	return quotations, total, err
}

func (r *quotationRepository) NextSequence(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&entity.Quotation{}).Count(&count).Error
	return int(count) + 1, err
}
