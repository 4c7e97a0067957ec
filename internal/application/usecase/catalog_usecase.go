// internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	productdom "shopcart/internal/domain/product"
)

var (
	ErrCatalogInvalid = errors.New("catalog_usecase: invalid catalog")
)

// CatalogSource opens a JSON catalog: [{"name": "...", "count": N}, ...]
type CatalogSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// CatalogEntry is one product row of a catalog file.
type CatalogEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CatalogImporter loads a catalog and saves every entry through the product repository.
type CatalogImporter struct {
	repo productdom.RepositoryPort
	log  *zap.Logger
}

func NewCatalogImporter(repo productdom.RepositoryPort, log *zap.Logger) *CatalogImporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogImporter{repo: repo, log: log}
}

// Import returns the number of products saved.
// The whole catalog is validated before the first save.
func (im *CatalogImporter) Import(ctx context.Context, src CatalogSource) (int, error) {
	if im.repo == nil || src == nil {
		return 0, ErrShoppingNotConfigured
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return 0, fmt.Errorf("catalog: open %s: %w", src, err)
	}
	defer rc.Close()

	products, err := DecodeCatalog(rc)
	if err != nil {
		return 0, err
	}

	for i, p := range products {
		if err := im.repo.Save(ctx, p); err != nil {
			return i, fmt.Errorf("catalog: save %s: %w", p.Name, err)
		}
	}

	im.log.Info("[catalog_uc] import done",
		zap.String("source", src.String()),
		zap.Int("products", len(products)),
	)
	return len(products), nil
}

// DecodeCatalog parses and validates a catalog document.
// Duplicate names are rejected.
func DecodeCatalog(r io.Reader) ([]*productdom.Product, error) {
	var entries []CatalogEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogInvalid, err)
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]*productdom.Product, 0, len(entries))
	for i, e := range entries {
		p, err := productdom.New(e.Name, e.Count)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrCatalogInvalid, i, err)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate product %q", ErrCatalogInvalid, p.Name)
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}
