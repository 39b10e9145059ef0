package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Detail        any    `json:"detail,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeUnauthenticated   = "UNAUTHENTICATED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business rule failure returned to the caller as a typed outcome.
// Two domain errors compare equal under errors.Is when their codes match, so an
// error built with extra detail still matches its sentinel.
type DomainError struct {
	Code    string
	Message string
	Detail  any
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// StockShortage describes why a sale line could not be fulfilled.
type StockShortage struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Available   int    `json:"available"`
	Requested   int    `json:"requested"`
}

// NewInsufficientStockError reports that a product has fewer units than requested.
func NewInsufficientStockError(productID, productName string, available, requested int) *DomainError {
	return &DomainError{
		Code:    ErrCodeInsufficientStock,
		Message: fmt.Sprintf("Only %d left of %s", available, productName),
		Detail: StockShortage{
			ProductID:   productID,
			ProductName: productName,
			Available:   available,
			Requested:   requested,
		},
	}
}

// NewProductNotFoundError reports a missing product by ID.
func NewProductNotFoundError(productID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeProductNotFound,
		Message: fmt.Sprintf("Product %s not found", productID),
		Detail:  map[string]string{"productId": productID},
	}
}

// NewValidationError reports malformed input.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// Common domain errors
var (
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock")
	ErrProductExists     = NewDomainError(ErrCodeConflict, "Product already exists")
	ErrBillNotFound      = NewDomainError(ErrCodeNotFound, "Bill not found")
	ErrUserNotFound      = NewDomainError(ErrCodeNotFound, "User not found")
	ErrUserExists        = NewDomainError(ErrCodeConflict, "Username already exists")
	ErrEmptySale         = NewDomainError(ErrCodeValidation, "Sale must contain at least one item")
	ErrInvalidQuantity   = NewDomainError(ErrCodeValidation, "Quantity must be greater than zero")
	ErrValidation        = NewDomainError(ErrCodeValidation, "Invalid input")
	ErrUnauthenticated   = NewDomainError(ErrCodeUnauthenticated, "Authentication required")
	ErrForbidden         = NewDomainError(ErrCodeForbidden, "Access denied")
)
