// internal/application/usecase/errors.go
package usecase

import "errors"

var (
	ErrInsufficientQuantity = errors.New("usecase: insufficient quantity")
)

// BuyError is returned by Buy when a line item asks for more than is in stock.
// Error() is meant to be shown to the end user as-is.
type BuyError struct {
	Product   string
	Requested int
	Available int
}

func (e *BuyError) Error() string {
	return "Insufficient quantity of product " + e.Product
}

func (e *BuyError) Is(target error) bool {
	return target == ErrInsufficientQuantity
}
