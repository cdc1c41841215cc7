package wishlist

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes rejected wishlist mutations.
type ErrorCode string

const (
	// ErrCodeAlreadyExists indicates an add for a product id already in
	// the wishlist.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Error represents a rejected wishlist mutation. Rejections are
// recoverable: state is unchanged.
type Error struct {
	Code      ErrorCode
	ProductID string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: product %s", e.Code, e.ProductID)
}

// IsAlreadyExists returns true if the error is a duplicate-add rejection.
// Uses errors.As to handle wrapped errors.
func IsAlreadyExists(err error) bool {
	var we *Error
	if errors.As(err, &we) {
		return we.Code == ErrCodeAlreadyExists
	}
	return false
}

func newAlreadyExistsError(productID string) *Error {
	return &Error{Code: ErrCodeAlreadyExists, ProductID: productID}
}
