package cart

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes rejected cart mutations.
type ErrorCode string

const (
	// ErrCodeInsufficientStock indicates the requested quantity exceeds
	// the product snapshot's available stock.
	ErrCodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
)

// Error represents a rejected cart mutation. Rejections are recoverable:
// state is unchanged and the caller may retry with different input.
type Error struct {
	Code      ErrorCode
	ProductID string
	Requested int
	Available int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: product %s: requested %d, available %d", e.Code, e.ProductID, e.Requested, e.Available)
}

// IsInsufficientStock returns true if the error is a stock rejection.
// Uses errors.As to handle wrapped errors.
func IsInsufficientStock(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInsufficientStock
	}
	return false
}

func newInsufficientStockError(productID string, requested, available int) *Error {
	return &Error{
		Code:      ErrCodeInsufficientStock,
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}
