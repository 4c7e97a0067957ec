// internal/domain/cart/store_port.go
package cart

// Store keeps the current cart of each customer, keyed by customer ID.
//
// The store is owned by the hosting application (see platform/di) and injected
// into the shopping usecase. Carts hold live *Product pointers, so
// implementations are in-process only.
type Store interface {
	// Get returns the cart for customerID; ok=false when absent or evicted.
	Get(customerID int64) (c *Cart, ok bool)

	// Put stores (or replaces) the cart for customerID.
	Put(customerID int64, c *Cart)

	// Delete removes the cart for customerID (e.g. after a purchase).
	Delete(customerID int64)
}
