package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/scrapdocs/scrapdocs-api/internal/application/service"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	input := &service.ListCustomersInput{
		Pagination: parsePagination(c),
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active") == "true",
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Get handles retrieving a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req struct {
		Name        string           `json:"name" binding:"required"`
		NameArabic  *string          `json:"name_arabic"`
		VATNumber   *string          `json:"vat_number"`
		CRNumber    *string          `json:"cr_number"`
		Country     string           `json:"country"`
		Phone       *string          `json:"phone"`
		Email       *string          `json:"email"`
		Address     *string          `json:"address"`
		CreditLimit *decimal.Decimal `json:"credit_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Name:        req.Name,
		NameArabic:  req.NameArabic,
		VATNumber:   req.VATNumber,
		CRNumber:    req.CRNumber,
		Country:     req.Country,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        string           `json:"name" binding:"required"`
		NameArabic  *string          `json:"name_arabic"`
		VATNumber   *string          `json:"vat_number"`
		CRNumber    *string          `json:"cr_number"`
		Country     string           `json:"country"`
		Phone       *string          `json:"phone"`
		Email       *string          `json:"email"`
		Address     *string          `json:"address"`
		CreditLimit *decimal.Decimal `json:"credit_limit"`
		IsActive    *bool            `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), &service.UpdateCustomerInput{
		ID:          id,
		Name:        req.Name,
		NameArabic:  req.NameArabic,
		VATNumber:   req.VATNumber,
		CRNumber:    req.CRNumber,
		Country:     req.Country,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
		IsActive:    req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles deleting a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer deleted successfully", nil)
}
