package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/scrapdocs/scrapdocs-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the input for creating a customer
type CreateCustomerInput struct {
	Name        string
	NameArabic  *string
	VATNumber   *string
	CRNumber    *string
	Country     string
	Phone       *string
	Email       *string
	Address     *string
	CreditLimit *decimal.Decimal
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Customer name is required")
	}
	if input.CreditLimit != nil && input.CreditLimit.IsNegative() {
		return nil, apperror.NewBadRequestError("Credit limit cannot be negative")
	}

	customer := &entity.Customer{
		Name:        input.Name,
		NameArabic:  input.NameArabic,
		VATNumber:   input.VATNumber,
		CRNumber:    input.CRNumber,
		Country:     input.Country,
		Phone:       input.Phone,
		Email:       input.Email,
		Address:     input.Address,
		CreditLimit: input.CreditLimit,
		IsActive:    true,
	}
	if customer.Country == "" {
		customer.Country = "Saudi Arabia"
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomerInput represents the input for updating a customer
type UpdateCustomerInput struct {
	ID          uuid.UUID
	Name        string
	NameArabic  *string
	VATNumber   *string
	CRNumber    *string
	Country     string
	Phone       *string
	Email       *string
	Address     *string
	CreditLimit *decimal.Decimal
	IsActive    *bool
}

// UpdateCustomer updates an existing customer. Documents keep the name they
// snapshotted at issue time; only the customer record changes.
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != "" {
		customer.Name = input.Name
	}
	if input.CreditLimit != nil && input.CreditLimit.IsNegative() {
		return nil, apperror.NewBadRequestError("Credit limit cannot be negative")
	}
	customer.NameArabic = input.NameArabic
	customer.VATNumber = input.VATNumber
	customer.CRNumber = input.CRNumber
	if input.Country != "" {
		customer.Country = input.Country
	}
	customer.Phone = input.Phone
	customer.Email = input.Email
	customer.Address = input.Address
	customer.CreditLimit = input.CreditLimit
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer soft-deletes a customer. Existing documents keep their
// snapshotted names and remain intact.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return s.customerRepo.Delete(ctx, id)
}

// ListCustomersInput represents the input for listing customers
type ListCustomersInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	ActiveOnly bool
}

// ListCustomers lists customers with filtering
func (s *CustomerService) ListCustomers(ctx context.Context, input *ListCustomersInput) (*pagination.PaginatedResult[entity.Customer], error) {
	params := &repository.CustomerFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		ActiveOnly: input.ActiveOnly,
	}

	customers, total, err := s.customerRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}
