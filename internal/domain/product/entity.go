// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
)

var (
	ErrInvalidProduct = errors.New("product: invalid")
)

// Product は在庫を持つ商品レコードです。
//   - Name: 商品名（リポジトリ上の識別子）
//   - Count: 在庫数（購入成功後は常に 0 以上）
//
// NOTE:
// - Cart の中では *Product のポインタ同一性で line item を区別します。
// - 同じ名前でも別インスタンスなら別 line item になります（Cart.Lookup を参照）。
type Product struct {
	Name  string `json:"name" firestore:"name"`
	Count int    `json:"count" firestore:"count"`
}

// New creates a product with a validated name and a non-negative count.
func New(name string, count int) (*Product, error) {
	p := &Product{
		Name:  strings.TrimSpace(name),
		Count: count,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// SubtractCount decreases Count by n.
// There is no lower bound here; the purchase flow checks availability first.
func (p *Product) SubtractCount(n int) {
	p.Count -= n
}

// Has reports whether qty units are currently in stock.
func (p *Product) Has(qty int) bool {
	return p.Count >= qty
}

func (p *Product) Validate() error {
	if p == nil {
		return ErrInvalidProduct
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProduct
	}
	if p.Count < 0 {
		return ErrInvalidProduct
	}
	return nil
}

// Clone returns a detached copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
