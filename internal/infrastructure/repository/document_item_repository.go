package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	domainRepo "github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"gorm.io/gorm"
)

type documentItemRepository struct {
	db *gorm.DB
}

// NewDocumentItemRepository creates a new line item repository
func NewDocumentItemRepository(db *gorm.DB) domainRepo.DocumentItemRepository {
	return &documentItemRepository{db: db}
}

func (r *documentItemRepository) Create(ctx context.Context, item *entity.DocumentItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *documentItemRepository) CreateBatch(ctx context.Context, items []entity.DocumentItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *documentItemRepository) Update(ctx context.Context, item *entity.DocumentItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *documentItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DocumentItem, error) {
	var item entity.DocumentItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *documentItemRepository) GetByDocument(ctx context.Context, docType enum.DocumentType, documentID uuid.UUID) ([]entity.DocumentItem, error) {
	var items []entity.DocumentItem
	err := r.db.WithContext(ctx).
		Where("document_type = ? AND document_id = ?", docType, documentID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *documentItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.DocumentItem{}, "id = ?", id).Error
}

func (r *documentItemRepository) DeleteByDocument(ctx context.Context, docType enum.DocumentType, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.DocumentItem{}, "document_type = ? AND document_id = ?", docType, documentID).Error
}
