package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	domainRepo "github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"gorm.io/gorm"
)

type scrapItemRepository struct {
	db *gorm.DB
}

// NewScrapItemRepository creates a new catalog item repository
func NewScrapItemRepository(db *gorm.DB) domainRepo.ScrapItemRepository {
	return &scrapItemRepository{db: db}
}

func (r *scrapItemRepository) Create(ctx context.Context, item *entity.ScrapItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *scrapItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ScrapItem, error) {
	var item entity.ScrapItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *scrapItemRepository) Update(ctx context.Context, item *entity.ScrapItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *scrapItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ScrapItem{}, "id = ?", id).Error
}

func (r *scrapItemRepository) List(ctx context.Context, params *domainRepo.ScrapItemFilterParams) ([]entity.ScrapItem, int64, error) {
	var items []entity.ScrapItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ScrapItem{})

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR name_arabic ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}

	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if params.LowStock {
		query = query.Where("min_stock IS NOT NULL AND current_stock <= min_stock")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("name ASC").
		Find(&items).Error

	return items, total, err
}
