package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/application/service"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/dto/response"
)

// ReceiptVoucherHandler handles receipt voucher HTTP requests
type ReceiptVoucherHandler struct {
	receiptService *service.ReceiptVoucherService
}

// NewReceiptVoucherHandler creates a new receipt voucher handler
func NewReceiptVoucherHandler(receiptService *service.ReceiptVoucherService) *ReceiptVoucherHandler {
	return &ReceiptVoucherHandler{receiptService: receiptService}
}

// List handles listing receipt vouchers with filters
func (h *ReceiptVoucherHandler) List(c *gin.Context) {
	input, ok := parseDocumentListInput(c)
	if !ok {
		return
	}

	result, err := h.receiptService.ListReceiptVouchers(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipt vouchers retrieved successfully", result)
}

// Get handles retrieving a single receipt voucher with its line items
func (h *ReceiptVoucherHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	voucher, err := h.receiptService.GetReceiptVoucher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt voucher retrieved successfully", voucher)
}

// Create handles creating a draft receipt voucher
func (h *ReceiptVoucherHandler) Create(c *gin.Context) {
	var req struct {
		CustomerID    *uuid.UUID         `json:"customer_id"`
		IssueDate     time.Time          `json:"issue_date"`
		PaymentMethod enum.PaymentMethod `json:"payment_method"`
		ReceivedFrom  string             `json:"received_from"`
		Currency      string             `json:"currency"`
		Notes         *string            `json:"notes"`
		Items         []lineItemRequest  `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	voucher, err := h.receiptService.CreateReceiptVoucher(c.Request.Context(), &service.CreateReceiptVoucherInput{
		CustomerID:    req.CustomerID,
		IssueDate:     req.IssueDate,
		PaymentMethod: req.PaymentMethod,
		ReceivedFrom:  req.ReceivedFrom,
		Currency:      req.Currency,
		Notes:         req.Notes,
		Items:         lineItemInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt voucher created successfully", voucher)
}

// AddItem handles adding a line item to a receipt voucher
func (h *ReceiptVoucherHandler) AddItem(c *gin.Context) {
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

	voucher, err := h.receiptService.AddItem(c.Request.Context(), &service.AddItemInput{
		DocumentID:        id,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
		Item:              req.Item.toInput(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line item added successfully", voucher)
}

// RemoveItem handles removing a line item from a receipt voucher
func (h *ReceiptVoucherHandler) RemoveItem(c *gin.Context) {
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

	voucher, err := h.receiptService.RemoveItem(c.Request.Context(), &service.RemoveItemInput{
		DocumentID:        id,
		ItemID:            itemID,
		ExpectedUpdatedAt: version,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line item removed successfully", voucher)
}

// ChangeStatus handles lifecycle transitions
func (h *ReceiptVoucherHandler) ChangeStatus(c *gin.Context) {
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

	voucher, err := h.receiptService.ChangeStatus(c.Request.Context(), &service.ChangeStatusInput{
		DocumentID:        id,
		Target:            target,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt voucher status updated successfully", voucher)
}

// Finalize handles settling a voucher in one step: the outstanding amount is
// recorded as paid and the document is walked to its terminal paid status
func (h *ReceiptVoucherHandler) Finalize(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		ExpectedUpdatedAt *time.Time `json:"expected_updated_at"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	voucher, err := h.receiptService.Finalize(c.Request.Context(), id, req.ExpectedUpdatedAt)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt voucher finalized successfully", voucher)
}

// Delete handles deleting a draft or cancelled receipt voucher
func (h *ReceiptVoucherHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.receiptService.DeleteReceiptVoucher(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt voucher deleted successfully", nil)
}
