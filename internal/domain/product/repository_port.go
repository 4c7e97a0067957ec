// internal/domain/product/repository_port.go
package product

import (
	"context"
	"errors"
)

//go:generate mockgen -destination=mock/repository_port_mock.go -package=mock shopcart/internal/domain/product RepositoryPort

// RepositoryPort is the persistence port for Product (the shopping DAO).
//
// Implementations:
// - adapters/out/memory: stores and returns copies (tests / local dev)
// - adapters/out/db: SQL table "products" (postgres / sqlite3)
// - adapters/out/firestore: collection "products", docId = name
type RepositoryPort interface {
	// Save creates or updates the record keyed by p.Name.
	Save(ctx context.Context, p *Product) error

	// FindAll returns every known product ordered by name.
	FindAll(ctx context.Context) ([]*Product, error)

	// FindByName returns (nil, ErrNotFound) when no product has that name.
	FindByName(ctx context.Context, name string) (*Product, error)
}

// TxRunner is implemented by stores that can run several calls atomically.
// Repository calls made with the ctx passed to fn join the transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

var (
	ErrNotFound = errors.New("product: not found")
)
