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

type receiptVoucherRepository struct {
	db *gorm.DB
}

// NewReceiptVoucherRepository creates a new receipt voucher repository
func NewReceiptVoucherRepository(db *gorm.DB) domainRepo.ReceiptVoucherRepository {
	return &receiptVoucherRepository{db: db}
}

func (r *receiptVoucherRepository) Create(ctx context.Context, voucher *entity.ReceiptVoucher) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(voucher).Error
}

func (r *receiptVoucherRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReceiptVoucher, error) {
	var voucher entity.ReceiptVoucher
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&voucher, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &voucher, err
}

func (r *receiptVoucherRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.ReceiptVoucher, error) {
	var voucher entity.ReceiptVoucher
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Item").
		First(&voucher, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &voucher, err
}

// Update commits the voucher only when the stored updated_at still matches
// the caller's expected version; otherwise the write is stale.
func (r *receiptVoucherRepository) Update(ctx context.Context, voucher *entity.ReceiptVoucher, expectedUpdatedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&entity.ReceiptVoucher{}).
		Where("id = ? AND updated_at = ?", voucher.ID, expectedUpdatedAt).
		Select("*").Omit("id", "created_at", clause.Associations).
		Updates(voucher)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrStaleWrite
	}
	return nil
}

func (r *receiptVoucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ReceiptVoucher{}, "id = ?", id).Error
}

func (r *receiptVoucherRepository) List(ctx context.Context, params *domainRepo.DocumentFilterParams) ([]entity.ReceiptVoucher, int64, error) {
	var vouchers []entity.ReceiptVoucher
	var total int64

	query := applyDocumentFilters(r.db.WithContext(ctx).Model(&entity.ReceiptVoucher{}), params)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&vouchers).Error

	return vouchers, total, err
}

func (r *receiptVoucherRepository) NextSequence(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&entity.ReceiptVoucher{}).Count(&count).Error
	return int(count) + 1, err
}
