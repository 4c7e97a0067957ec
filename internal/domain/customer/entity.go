// internal/domain/customer/entity.go
package customer

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCustomer = errors.New("customer: invalid")
)

// Customer identifies the owner of a cart.
// ID is the cart cache key; Phone is contact info only.
type Customer struct {
	ID    int64  `json:"id"`
	Phone string `json:"phone,omitempty"`
}

func New(id int64, phone string) (Customer, error) {
	c := Customer{
		ID:    id,
		Phone: strings.TrimSpace(phone),
	}
	if c.ID <= 0 {
		return Customer{}, ErrInvalidCustomer
	}
	return c, nil
}
