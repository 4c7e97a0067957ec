// internal/adapters/out/memory/product_repository_mem.go
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	productdom "shopcart/internal/domain/product"
)

// ProductRepositoryMem is an in-process product store.
//
// Save and the seed store copies, and reads return copies, so callers never
// share a *Product with the store or with each other.
type ProductRepositoryMem struct {
	mu    sync.Mutex
	items map[string]*productdom.Product
}

func NewProductRepositoryMem(seed ...*productdom.Product) *ProductRepositoryMem {
	r := &ProductRepositoryMem{items: make(map[string]*productdom.Product, len(seed))}
	for _, p := range seed {
		if p != nil {
			r.items[strings.TrimSpace(p.Name)] = p.Clone()
		}
	}
	return r
}

func (r *ProductRepositoryMem) Save(ctx context.Context, p *productdom.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return productdom.ErrInvalidProduct
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[strings.TrimSpace(p.Name)] = p.Clone()
	return nil
}

func (r *ProductRepositoryMem) FindAll(ctx context.Context) ([]*productdom.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*productdom.Product, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductRepositoryMem) FindByName(ctx context.Context, name string) (*productdom.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[strings.TrimSpace(name)]
	if !ok {
		return nil, productdom.ErrNotFound
	}
	return p.Clone(), nil
}
