package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *CustomerFilterParams) ([]entity.Customer, int64, error)
}

// CustomerFilterParams contains filtering parameters for customer queries
type CustomerFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	ActiveOnly bool
}
