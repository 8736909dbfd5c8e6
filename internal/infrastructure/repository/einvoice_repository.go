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

type einvoiceRepository struct {
	db *gorm.DB
}

// NewEInvoiceRepository creates a new e-invoice repository
func NewEInvoiceRepository(db *gorm.DB) domainRepo.EInvoiceRepository {
	return &einvoiceRepository{db: db}
}

func (r *einvoiceRepository) Create(ctx context.Context, einvoice *entity.EInvoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(einvoice).Error
}

func (r *einvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.EInvoice, error) {
	var einvoice entity.EInvoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&einvoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &einvoice, err
}

func (r *einvoiceRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.EInvoice, error) {
	var einvoice entity.EInvoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Item").
		First(&einvoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &einvoice, err
}

// Update commits the e-invoice only when the stored updated_at still matches
// the caller's expected version; otherwise the write is stale.
func (r *einvoiceRepository) Update(ctx context.Context, einvoice *entity.EInvoice, expectedUpdatedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&entity.EInvoice{}).
		Where("id = ? AND updated_at = ?", einvoice.ID, expectedUpdatedAt).
		Select("*").Omit("id", "created_at", clause.Associations).
		Updates(einvoice)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrStaleWrite
	}
	return nil
}

func (r *einvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.EInvoice{}, "id = ?", id).Error
}

func (r *einvoiceRepository) List(ctx context.Context, params *domainRepo.DocumentFilterParams) ([]entity.EInvoice, int64, error) {
	var einvoices []entity.EInvoice
	var total int64

	query := applyDocumentFilters(r.db.WithContext(ctx).Model(&entity.EInvoice{}), params)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&einvoices).Error

	return einvoices, total, err
}

func (r *einvoiceRepository) NextSequence(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&entity.EInvoice{}).Count(&count).Error
	return int(count) + 1, err
}
