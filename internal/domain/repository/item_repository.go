package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/pkg/pagination"
)

// ScrapItemRepository defines the interface for catalog item data operations
type ScrapItemRepository interface {
	Create(ctx context.Context, item *entity.ScrapItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ScrapItem, error)
	Update(ctx context.Context, item *entity.ScrapItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ScrapItemFilterParams) ([]entity.ScrapItem, int64, error)
}

// ScrapItemFilterParams contains filtering parameters for catalog queries
type ScrapItemFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   *enum.MetalCategory
	ActiveOnly bool
	LowStock   bool
}
