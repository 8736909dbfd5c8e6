package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    string       `json:"kind,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Error kinds for the document lifecycle. Handlers map them straight to the
// response envelope so callers can retry or correct.
const (
	KindInvalidLineItem      = "invalid_line_item"
	KindInvalidTransition    = "invalid_transition"
	KindDocumentLocked       = "document_locked"
	KindComplianceIncomplete = "compliance_submission_incomplete"
	KindStaleWrite           = "stale_write"
	KindQuotationConverted   = "quotation_already_converted"
)

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}

	// ErrStaleWrite signals an optimistic-concurrency conflict: the caller's
	// expected version no longer matches the stored document.
	ErrStaleWrite = &AppError{
		Code:    http.StatusConflict,
		Kind:    KindStaleWrite,
		Message: "Document was modified by another writer, reload and retry",
	}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewInvalidLineItemError wraps a line calculation failure
func NewInvalidLineItemError(reason string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInvalidLineItem,
		Message: "Invalid line item: " + reason,
	}
}

// NewInvalidTransitionError reports an illegal status change, naming the
// current state and the attempted target
func NewInvalidTransitionError(current, target string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInvalidTransition,
		Message: "Invalid status transition from " + current + " to " + target,
	}
}

// NewDocumentLockedError reports a mutation attempted on a non-editable status
func NewDocumentLockedError(status string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindDocumentLocked,
		Message: "Document is locked for editing in status " + status,
	}
}

// NewComplianceIncompleteError reports a tax-authority call that returned no
// reference identifier
func NewComplianceIncompleteError() *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Kind:    KindComplianceIncomplete,
		Message: "Tax authority returned no reference for the submission",
	}
}

// NewQuotationConvertedError reports a second conversion attempt on a
// quotation that already produced an invoice
func NewQuotationConvertedError() *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindQuotationConverted,
		Message: "Quotation has already been converted to an invoice",
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
