package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/scrapdocs/scrapdocs-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ItemService handles catalog item operations
type ItemService struct {
	itemRepo repository.ScrapItemRepository
}

// NewItemService creates a new catalog item service
func NewItemService(itemRepo repository.ScrapItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// CreateItemInput represents the input for creating a catalog item
type CreateItemInput struct {
	Name         string
	NameArabic   *string
	Category     enum.MetalCategory
	Unit         string
	PricePerUnit decimal.Decimal
	AvgCostPrice *decimal.Decimal
	CurrentStock decimal.Decimal
	MinStock     *decimal.Decimal
}

// CreateItem creates a new catalog item
func (s *ItemService) CreateItem(ctx context.Context, input *CreateItemInput) (*entity.ScrapItem, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Item name is required")
	}
	if input.PricePerUnit.IsNegative() {
		return nil, apperror.NewBadRequestError("Price per unit cannot be negative")
	}
	category := input.Category
	if category == "" {
		category = enum.MetalCategoryMixed
	}
	if !category.Valid() {
		return nil, apperror.NewBadRequestError("Unknown metal category: " + category.String())
	}

	item := &entity.ScrapItem{
		Name:         input.Name,
		NameArabic:   input.NameArabic,
		Category:     category,
		Unit:         input.Unit,
		PricePerUnit: input.PricePerUnit,
		AvgCostPrice: input.AvgCostPrice,
		CurrentStock: input.CurrentStock,
		MinStock:     input.MinStock,
		IsActive:     true,
	}
	if item.Unit == "" {
		item.Unit = "kg"
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem retrieves a catalog item by ID
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*entity.ScrapItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}

// UpdateCatalogItemInput represents the input for updating a catalog item
type UpdateCatalogItemInput struct {
	ID           uuid.UUID
	Name         string
	NameArabic   *string
	Category     enum.MetalCategory
	Unit         string
	PricePerUnit *decimal.Decimal
	AvgCostPrice *decimal.Decimal
	CurrentStock *decimal.Decimal
	MinStock     *decimal.Decimal
	IsActive     *bool
}

// UpdateItem updates a catalog item. Price changes only affect documents
// created afterwards; existing lines keep their snapshotted price.
func (s *ItemService) UpdateItem(ctx context.Context, input *UpdateCatalogItemInput) (*entity.ScrapItem, error) {
	item, err := s.itemRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	if input.Name != "" {
		item.Name = input.Name
	}
	if input.NameArabic != nil {
		item.NameArabic = input.NameArabic
	}
	if input.Category != "" {
		if !input.Category.Valid() {
			return nil, apperror.NewBadRequestError("Unknown metal category: " + input.Category.String())
		}
		item.Category = input.Category
	}
	if input.Unit != "" {
		item.Unit = input.Unit
	}
	if input.PricePerUnit != nil {
		if input.PricePerUnit.IsNegative() {
			return nil, apperror.NewBadRequestError("Price per unit cannot be negative")
		}
		item.PricePerUnit = *input.PricePerUnit
	}
	if input.AvgCostPrice != nil {
		item.AvgCostPrice = input.AvgCostPrice
	}
	if input.CurrentStock != nil {
		item.CurrentStock = *input.CurrentStock
	}
	if input.MinStock != nil {
		item.MinStock = input.MinStock
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem soft-deletes a catalog item
func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NewNotFoundError("Item")
	}
	return s.itemRepo.Delete(ctx, id)
}

// ListItemsInput represents the input for listing catalog items
type ListItemsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   *enum.MetalCategory
	ActiveOnly bool
	LowStock   bool
}

// ListItems lists catalog items with filtering
func (s *ItemService) ListItems(ctx context.Context, input *ListItemsInput) (*pagination.PaginatedResult[entity.ScrapItem], error) {
	params := &repository.ScrapItemFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Category:   input.Category,
		ActiveOnly: input.ActiveOnly,
		LowStock:   input.LowStock,
	}

	items, total, err := s.itemRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}
