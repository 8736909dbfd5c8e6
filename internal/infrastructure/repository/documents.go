package repository

import (
	domainRepo "github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"gorm.io/gorm"
)

// applyDocumentFilters adds the shared document list filters to a query.
func applyDocumentFilters(query *gorm.DB, params *domainRepo.DocumentFilterParams) *gorm.DB {
	if params.Search != "" {
		query = query.Where("number ILIKE ? OR customer_name ILIKE ? OR customer_name_arabic ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.DateFrom != nil {
		query = query.Where("issue_date >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("issue_date <= ?", *params.DateTo)
	}
	return query
}
