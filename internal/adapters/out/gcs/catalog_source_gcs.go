// internal/adapters/out/gcs/catalog_source_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

var (
	ErrInvalidGSURI  = errors.New("gcs: invalid gs:// uri")
	ErrObjectMissing = errors.New("gcs: catalog object not found")
)

// CatalogSourceGCS reads a product catalog JSON object from GCS.
//   - usecase.CatalogSource を満たします（Open/String）
type CatalogSourceGCS struct {
	Client *storage.Client
	Bucket string
	Object string
}

// NewCatalogSourceGCS builds a source from "gs://bucket/path/to/catalog.json".
func NewCatalogSourceGCS(client *storage.Client, uri string) (*CatalogSourceGCS, error) {
	bucket, object, err := ParseGSURI(uri)
	if err != nil {
		return nil, err
	}
	return &CatalogSourceGCS{Client: client, Bucket: bucket, Object: object}, nil
}

func (s *CatalogSourceGCS) Open(ctx context.Context) (io.ReadCloser, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("gcs: storage client is nil")
	}
	rc, err := s.Client.Bucket(s.Bucket).Object(s.Object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrObjectMissing, s)
		}
		return nil, err
	}
	return rc, nil
}

func (s *CatalogSourceGCS) String() string {
	return "gs://" + s.Bucket + "/" + s.Object
}

// ParseGSURI splits gs://bucket/object.
func ParseGSURI(uri string) (bucket, object string, err error) {
	u := strings.TrimSpace(uri)
	if !strings.HasPrefix(u, "gs://") {
		return "", "", ErrInvalidGSURI
	}
	rest := strings.TrimPrefix(u, "gs://")
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || strings.Trim(object, "/") == "" {
		return "", "", ErrInvalidGSURI
	}
	return bucket, object, nil
}

// IsGSURI reports whether uri points at GCS.
func IsGSURI(uri string) bool {
	return strings.HasPrefix(strings.TrimSpace(uri), "gs://")
}
