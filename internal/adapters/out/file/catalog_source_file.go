// internal/adapters/out/file/catalog_source_file.go
package file

import (
	"context"
	"io"
	"os"
	"strings"
)

// CatalogSourceFile reads a product catalog JSON from the local filesystem.
type CatalogSourceFile struct {
	Path string
}

func NewCatalogSourceFile(path string) *CatalogSourceFile {
	return &CatalogSourceFile{Path: strings.TrimSpace(path)}
}

func (s *CatalogSourceFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(s.Path)
}

func (s *CatalogSourceFile) String() string {
	return s.Path
}
