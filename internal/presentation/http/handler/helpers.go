package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/application/service"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/dto/response"
	"github.com/scrapdocs/scrapdocs-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// parseIDParam parses a UUID path parameter, writing a 400 response when it is
// malformed
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads page-based pagination parameters from the query string
func parsePagination(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}
	params.Validate()
	return params
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.BadRequest(c, "Invalid "+name+", expected YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

// parseDocumentListInput assembles the shared document list filters from the
// query string
func parseDocumentListInput(c *gin.Context) (*service.ListInvoicesInput, bool) {
	input := &service.ListInvoicesInput{
		Pagination: parsePagination(c),
		Search:     c.Query("search"),
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := enum.ParseDocumentStatus(raw)
		if !ok {
			response.BadRequest(c, "Invalid status filter")
			return nil, false
		}
		input.Status = &status
	}
	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid customer_id filter")
			return nil, false
		}
		input.CustomerID = &customerID
	}

	var ok bool
	if input.DateFrom, ok = parseDateQuery(c, "date_from"); !ok {
		return nil, false
	}
	if input.DateTo, ok = parseDateQuery(c, "date_to"); !ok {
		return nil, false
	}
	return input, true
}

// parseVersionQuery parses the optional expected_updated_at query parameter
// used as the optimistic-concurrency token on bodyless requests
func parseVersionQuery(c *gin.Context) (*time.Time, bool) {
	raw := c.Query("expected_updated_at")
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		response.BadRequest(c, "Invalid expected_updated_at, expected RFC3339")
		return nil, false
	}
	return &t, true
}

// lineItemRequest is the JSON shape of a document line item
type lineItemRequest struct {
	ItemID      uuid.UUID       `json:"item_id" binding:"required"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	VATRate     decimal.Decimal `json:"vat_rate"`
}

func (r lineItemRequest) toInput() service.LineItemInput {
	return service.LineItemInput{
		ItemID:      r.ItemID,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Discount:    r.Discount,
		VATRate:     r.VATRate,
	}
}

func lineItemInputs(reqs []lineItemRequest) []service.LineItemInput {
	inputs := make([]service.LineItemInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, r.toInput())
	}
	return inputs
}
