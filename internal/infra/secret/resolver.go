// internal/infra/secret/resolver.go
package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrSecretNotConfigured = errors.New("secret: not configured")
	ErrSecretInvalidName   = errors.New("secret: invalid version name")
	ErrSecretNotFound      = errors.New("secret: not found")
)

// versionAccessor is satisfied by *secretmanager.Client.
type versionAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	Close() error
}

// Resolver reads secret payloads from Secret Manager.
type Resolver struct {
	client versionAccessor
}

func NewResolver(ctx context.Context) (*Resolver, error) {
	c, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secret: new client: %w", err)
	}
	return &Resolver{client: c}, nil
}

// Resolve returns the trimmed payload of
// projects/<p>/secrets/<s>/versions/<v>. A name without "/versions/" resolves "latest".
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	if r == nil || r.client == nil {
		return "", ErrSecretNotConfigured
	}

	full, err := normalizeName(name)
	if err != nil {
		return "", err
	}

	res, err := r.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: full})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, full)
		}
		return "", fmt.Errorf("secret: access %s: %w", full, err)
	}
	if res == nil || res.Payload == nil {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, full)
	}

	s := strings.TrimSpace(string(res.Payload.Data))
	if s == "" {
		return "", fmt.Errorf("%w: %s (empty payload)", ErrSecretNotFound, full)
	}
	return s, nil
}

func (r *Resolver) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

func normalizeName(name string) (string, error) {
	n := strings.Trim(strings.TrimSpace(name), "/")
	parts := strings.Split(n, "/")

	switch {
	case len(parts) == 4 && parts[0] == "projects" && parts[2] == "secrets":
		n += "/versions/latest"
	case len(parts) == 6 && parts[0] == "projects" && parts[2] == "secrets" && parts[4] == "versions":
	default:
		return "", fmt.Errorf("%w: %q", ErrSecretInvalidName, name)
	}

	for _, p := range strings.Split(n, "/") {
		if p == "" {
			return "", fmt.Errorf("%w: %q", ErrSecretInvalidName, name)
		}
	}
	return n, nil
}
