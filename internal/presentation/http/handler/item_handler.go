package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/scrapdocs/scrapdocs-api/internal/application/service"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// ItemHandler handles scrap item catalog HTTP requests
type ItemHandler struct {
	itemService *service.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// List handles listing catalog items
func (h *ItemHandler) List(c *gin.Context) {
	input := &service.ListItemsInput{
		Pagination: parsePagination(c),
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active") == "true",
		LowStock:   c.Query("low_stock") == "true",
	}

	if raw := c.Query("category"); raw != "" {
		category := enum.MetalCategory(raw)
		if !category.Valid() {
			response.BadRequest(c, "Invalid category filter")
			return
		}
		input.Category = &category
	}

	result, err := h.itemService.ListItems(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Items retrieved successfully", result)
}

// Get handles retrieving a single catalog item
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item retrieved successfully", item)
}

// Create handles creating a catalog item
func (h *ItemHandler) Create(c *gin.Context) {
	var req struct {
		Name         string             `json:"name" binding:"required"`
		NameArabic   *string            `json:"name_arabic"`
		Category     enum.MetalCategory `json:"category"`
		Unit         string             `json:"unit"`
		PricePerUnit decimal.Decimal    `json:"price_per_unit"`
		AvgCostPrice *decimal.Decimal   `json:"avg_cost_price"`
		CurrentStock decimal.Decimal    `json:"current_stock"`
		MinStock     *decimal.Decimal   `json:"min_stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), &service.CreateItemInput{
		Name:         req.Name,
		NameArabic:   req.NameArabic,
		Category:     req.Category,
		Unit:         req.Unit,
		PricePerUnit: req.PricePerUnit,
		AvgCostPrice: req.AvgCostPrice,
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item created successfully", item)
}

// Update handles updating a catalog item
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name         string             `json:"name"`
		NameArabic   *string            `json:"name_arabic"`
		Category     enum.MetalCategory `json:"category"`
		Unit         string             `json:"unit"`
		PricePerUnit *decimal.Decimal   `json:"price_per_unit"`
		AvgCostPrice *decimal.Decimal   `json:"avg_cost_price"`
		CurrentStock *decimal.Decimal   `json:"current_stock"`
		MinStock     *decimal.Decimal   `json:"min_stock"`
		IsActive     *bool              `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), &service.UpdateCatalogItemInput{
		ID:           id,
		Name:         req.Name,
		NameArabic:   req.NameArabic,
		Category:     req.Category,
		Unit:         req.Unit,
		PricePerUnit: req.PricePerUnit,
		AvgCostPrice: req.AvgCostPrice,
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
		IsActive:     req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", item)
}

// Delete handles deleting a catalog item
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item deleted successfully", nil)
}
