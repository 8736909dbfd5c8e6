package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/scrapdocs/scrapdocs-api/internal/application/service"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles receipt printer HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// Status handles reporting printer configuration and connectivity
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved successfully", h.printerService.GetStatus())
}

// TestPrint handles printing a test page
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	printout, err := h.printerService.TestPrint()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Test print completed successfully", printout)
}

// PrintInvoice handles printing an invoice
func (h *PrinterHandler) PrintInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	printout, err := h.printerService.PrintInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice printed successfully", printout)
}

// PrintReceiptVoucher handles printing a receipt voucher
func (h *PrinterHandler) PrintReceiptVoucher(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	printout, err := h.printerService.PrintReceiptVoucher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt voucher printed successfully", printout)
}
