// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
	"time"

	customerdom "shopcart/internal/domain/customer"
	productdom "shopcart/internal/domain/product"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")
)

// DefaultCartTTL is the inactivity window after which a cached cart becomes eligible for eviction.
const DefaultCartTTL = 7 * 24 * time.Hour

// Line represents "one line item" in a cart.
// Product is held by pointer; two lines never share the same *Product.
type Line struct {
	Product *productdom.Product
	Qty     int
}

// Cart is a customer's pending selection of products.
//   - Owner may be nil (anonymous cart)
//   - Lines keep insertion order so purchase validation is deterministic
//
// NOTE:
// - qty の下限チェックはここでは行わない（負数は購入時にスキップされる）
// - 入力境界（HTTP / CLI / usecase.AddToCart）で qty >= 1 を強制する
type Cart struct {
	Owner *customerdom.Customer

	lines []Line

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates an empty cart for owner.
func New(owner *customerdom.Customer, now time.Time) *Cart {
	return &Cart{
		Owner:     owner,
		lines:     []Line{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Add increases quantity for p, or appends a new line if p is not in the cart yet.
func (c *Cart) Add(p *productdom.Product, qty int, now time.Time) error {
	if c == nil || p == nil {
		return ErrInvalidCart
	}

	if idx := c.indexOf(p); idx >= 0 {
		c.lines[idx].Qty += qty
	} else {
		c.lines = append(c.lines, Line{Product: p, Qty: qty})
	}

	c.touch(now)
	return nil
}

// Products returns a snapshot of product -> requested quantity.
func (c *Cart) Products() map[*productdom.Product]int {
	out := make(map[*productdom.Product]int, c.Len())
	if c == nil {
		return out
	}
	for _, l := range c.lines {
		out[l.Product] = l.Qty
	}
	return out
}

// Lines returns the line items in insertion order.
func (c *Cart) Lines() []Line {
	if c == nil || len(c.lines) == 0 {
		return []Line{}
	}
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Snapshot is a detached, read-only copy of a cart.
type Snapshot struct {
	Lines     []Line
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot copies the lines and clones their products.
func (c *Cart) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{Lines: []Line{}}
	}
	lines := make([]Line, len(c.lines))
	for i, l := range c.lines {
		lines[i] = Line{Product: l.Product.Clone(), Qty: l.Qty}
	}
	return Snapshot{Lines: lines, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

// Lookup returns the product already held by the cart under name, if any.
func (c *Cart) Lookup(name string) (*productdom.Product, bool) {
	if c == nil {
		return nil, false
	}
	n := strings.TrimSpace(name)
	for _, l := range c.lines {
		if l.Product.Name == n {
			return l.Product, true
		}
	}
	return nil, false
}

func (c *Cart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Clear drops every line item.
func (c *Cart) Clear(now time.Time) {
	if c == nil {
		return
	}
	c.lines = []Line{}
	c.touch(now)
}

func (c *Cart) touch(now time.Time) {
	if now.IsZero() {
		return
	}
	c.UpdatedAt = now
}

func (c *Cart) indexOf(p *productdom.Product) int {
	for i := range c.lines {
		if c.lines[i].Product == p {
			return i
		}
	}
	return -1
}
