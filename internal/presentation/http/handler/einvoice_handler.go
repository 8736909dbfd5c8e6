package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/application/service"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// EInvoiceHandler handles electronic invoice HTTP requests
type EInvoiceHandler struct {
	einvoiceService *service.EInvoiceService
}

// NewEInvoiceHandler creates a new e-invoice handler
func NewEInvoiceHandler(einvoiceService *service.EInvoiceService) *EInvoiceHandler {
	return &EInvoiceHandler{einvoiceService: einvoiceService}
}

// List handles listing e-invoices with filters
func (h *EInvoiceHandler) List(c *gin.Context) {
	input, ok := parseDocumentListInput(c)
	if !ok {
		return
	}

	result, err := h.einvoiceService.ListEInvoices(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "E-invoices retrieved successfully", result)
}

// Get handles retrieving a single e-invoice with its line items
func (h *EInvoiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	einvoice, err := h.einvoiceService.GetEInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "E-invoice retrieved successfully", einvoice)
}

// Create handles creating a draft e-invoice
func (h *EInvoiceHandler) Create(c *gin.Context) {
	var req struct {
		CustomerID   *uuid.UUID        `json:"customer_id"`
		IssueDate    time.Time         `json:"issue_date"`
		DueDate      time.Time         `json:"due_date"`
		PaymentTerms string            `json:"payment_terms"`
		Currency     string            `json:"currency"`
		Notes        *string           `json:"notes"`
		Items        []lineItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	einvoice, err := h.einvoiceService.CreateEInvoice(c.Request.Context(), &service.CreateEInvoiceInput{
		CustomerID:   req.CustomerID,
		IssueDate:    req.IssueDate,
		DueDate:      req.DueDate,
		PaymentTerms: req.PaymentTerms,
		Currency:     req.Currency,
		Notes:        req.Notes,
		Items:        lineItemInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "E-invoice created successfully", einvoice)
}

// AddItem handles adding a line item to an e-invoice
func (h *EInvoiceHandler) AddItem(c *gin.Context) {
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

	einvoice, err := h.einvoiceService.AddItem(c.Request.Context(), &service.AddItemInput{
		DocumentID:        id,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
		Item:              req.Item.toInput(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line item added successfully", einvoice)
}

// UpdateItem handles updating a line item on an e-invoice
func (h *EInvoiceHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemID")
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

	einvoice, err := h.einvoiceService.UpdateItem(c.Request.Context(), &service.UpdateItemInput{
		DocumentID:        id,
		ItemID:            itemID,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
		Item:              req.Item.toInput(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line item updated successfully", einvoice)
}

// RemoveItem handles removing a line item from an e-invoice
func (h *EInvoiceHandler) RemoveItem(c *gin.Context) {
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

	einvoice, err := h.einvoiceService.RemoveItem(c.Request.Context(), &service.RemoveItemInput{
		DocumentID:        id,
		ItemID:            itemID,
		ExpectedUpdatedAt: version,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line item removed successfully", einvoice)
}

// ChangeStatus handles lifecycle transitions, including the compliance gate
// on sending
func (h *EInvoiceHandler) ChangeStatus(c *gin.Context) {
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

	einvoice, err := h.einvoiceService.ChangeStatus(c.Request.Context(), &service.ChangeStatusInput{
		DocumentID:        id,
		Target:            target,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "E-invoice status updated successfully", einvoice)
}

// ApplyPayment handles recording a payment against an e-invoice
func (h *EInvoiceHandler) ApplyPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Amount            decimal.Decimal `json:"amount" binding:"required"`
		ExpectedUpdatedAt *time.Time      `json:"expected_updated_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	einvoice, err := h.einvoiceService.ApplyPayment(c.Request.Context(), &service.ApplyPaymentInput{
		DocumentID:        id,
		Amount:            req.Amount,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment applied successfully", einvoice)
}

// Submit handles submitting an approved e-invoice to the tax authority
func (h *EInvoiceHandler) Submit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	einvoice, err := h.einvoiceService.SubmitToZATCA(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "E-invoice submitted successfully", einvoice)
}

// RetrySubmission handles resetting a rejected or incomplete submission so it
// can be sent again
func (h *EInvoiceHandler) RetrySubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	einvoice, err := h.einvoiceService.RetrySubmission(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "E-invoice submission reset successfully", einvoice)
}

// Delete handles deleting a draft or cancelled e-invoice
func (h *EInvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.einvoiceService.DeleteEInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "E-invoice deleted successfully", nil)
}
