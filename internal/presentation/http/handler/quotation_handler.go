package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/application/service"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/dto/response"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// List handles listing quotations with filters
func (h *QuotationHandler) List(c *gin.Context) {
	input, ok := parseDocumentListInput(c)
	if !ok {
		return
	}

	result, err := h.quotationService.ListQuotations(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Quotations retrieved successfully", result)
}

// Get handles retrieving a single quotation with its line items
func (h *QuotationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetQuotation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Create handles creating a draft quotation
func (h *QuotationHandler) Create(c *gin.Context) {
	var req struct {
		CustomerID *uuid.UUID        `json:"customer_id"`
		IssueDate  time.Time         `json:"issue_date"`
		ValidUntil time.Time         `json:"valid_until"`
		Terms      string            `json:"terms"`
		Currency   string            `json:"currency"`
		Notes      *string           `json:"notes"`
		Items      []lineItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quotation, err := h.quotationService.CreateQuotation(c.Request.Context(), &service.CreateQuotationInput{
		CustomerID: req.CustomerID,
		IssueDate:  req.IssueDate,
		ValidUntil: req.ValidUntil,
		Terms:      req.Terms,
		Currency:   req.Currency,
		Notes:      req.Notes,
		Items:      lineItemInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation created successfully", quotation)
}

// AddItem handles adding a line item to a quotation
func (h *QuotationHandler) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		ExpectedUpdatedAt *time.Time      `json:"expected_updated_at"`
		Item              lineItemRequest `json:"item" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quotation, err := h.quotationService.AddItem(c.Request.Context(), &service.AddItemInput{
		DocumentID:        id,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
		Item:              req.Item.toInput(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line item added successfully", quotation)
}

// RemoveItem handles removing a line item from a quotation
func (h *QuotationHandler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}
	version, ok := parseVersionQuery(c)
	if !ok {
		return
	}

	quotation, err := h.quotationService.RemoveItem(c.Request.Context(), &service.RemoveItemInput{
		DocumentID:        id,
		ItemID:            itemID,
		ExpectedUpdatedAt: version,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line item removed successfully", quotation)
}

// ChangeStatus handles lifecycle transitions
func (h *QuotationHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status            string     `json:"status" binding:"required"`
		ExpectedUpdatedAt *time.Time `json:"expected_updated_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	target, ok := enum.ParseDocumentStatus(req.Status)
	if !ok {
		response.BadRequest(c, "Invalid status")
		return
	}

	quotation, err := h.quotationService.ChangeStatus(c.Request.Context(), &service.ChangeStatusInput{
		DocumentID:        id,
		Target:            target,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation status updated successfully", quotation)
}

// Convert handles converting a quotation into a new draft invoice
func (h *QuotationHandler) Convert(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		ExpectedUpdatedAt *time.Time `json:"expected_updated_at"`
		DueDate           time.Time  `json:"due_date"`
		PaymentTerms      string     `json:"payment_terms"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	invoice, err := h.quotationService.ConvertToInvoice(c.Request.Context(), &service.ConvertQuotationInput{
		QuotationID:       id,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
		DueDate:           req.DueDate,
		PaymentTerms:      req.PaymentTerms,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation converted to invoice successfully", invoice)
}

// Delete handles deleting a draft or cancelled quotation
func (h *QuotationHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quotationService.DeleteQuotation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation deleted successfully", nil)
}
