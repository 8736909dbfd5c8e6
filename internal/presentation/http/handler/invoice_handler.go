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

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List handles listing invoices with filters
func (h *InvoiceHandler) List(c *gin.Context) {
	input, ok := parseDocumentListInput(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles retrieving a single invoice with its line items
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Create handles creating a draft invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
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

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
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

	response.Created(c, "Invoice created successfully", invoice)
}

// Update handles updating the invoice header
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		ExpectedUpdatedAt *time.Time `json:"expected_updated_at"`
		CustomerID        *uuid.UUID `json:"customer_id"`
		IssueDate         *time.Time `json:"issue_date"`
		DueDate           *time.Time `json:"due_date"`
		PaymentTerms      *string    `json:"payment_terms"`
		Notes             *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), &service.UpdateInvoiceInput{
		ID:                id,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
		CustomerID:        req.CustomerID,
		IssueDate:         req.IssueDate,
		DueDate:           req.DueDate,
		PaymentTerms:      req.PaymentTerms,
		Notes:             req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// AddItem handles adding a line item to an invoice
func (h *InvoiceHandler) AddItem(c *gin.Context) {
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

	invoice, err := h.invoiceService.AddItem(c.Request.Context(), &service.AddItemInput{
		DocumentID:        id,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
		Item:              req.Item.toInput(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line item added successfully", invoice)
}

// UpdateItem handles updating a line item on an invoice
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
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

	invoice, err := h.invoiceService.UpdateItem(c.Request.Context(), &service.UpdateItemInput{
		DocumentID:        id,
		ItemID:            itemID,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
		Item:              req.Item.toInput(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line item updated successfully", invoice)
}

// RemoveItem handles removing a line item from an invoice
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
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

	invoice, err := h.invoiceService.RemoveItem(c.Request.Context(), &service.RemoveItemInput{
		DocumentID:        id,
		ItemID:            itemID,
		ExpectedUpdatedAt: version,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line item removed successfully", invoice)
}

// ChangeStatus handles lifecycle transitions
func (h *InvoiceHandler) ChangeStatus(c *gin.Context) {
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

	invoice, err := h.invoiceService.ChangeStatus(c.Request.Context(), &service.ChangeStatusInput{
		DocumentID:        id,
		Target:            target,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice status updated successfully", invoice)
}

// ApplyPayment handles recording a payment against an invoice
func (h *InvoiceHandler) ApplyPayment(c *gin.Context) {
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

	invoice, err := h.invoiceService.ApplyPayment(c.Request.Context(), &service.ApplyPaymentInput{
		DocumentID:        id,
		Amount:            req.Amount,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment applied successfully", invoice)
}

// Delete handles deleting a draft or cancelled invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice deleted successfully", nil)
}
