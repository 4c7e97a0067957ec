// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	productdom "shopcart/internal/domain/product"
)

const productsCollection = "products"

var errNilClient = errors.New("firestore client is nil")

// ProductRepositoryFS stores products in the "products" collection.
// docId = product name.
type ProductRepositoryFS struct {
	Client *firestore.Client
	now    func() time.Time
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client, now: time.Now}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(productsCollection)
}

type txKey struct{}

func txFrom(ctx context.Context) *firestore.Transaction {
	tx, _ := ctx.Value(txKey{}).(*firestore.Transaction)
	return tx
}

// RunInTx runs fn in a Firestore transaction; calls made with fn's ctx read
// and write through it. Firestore may run fn more than once on contention,
// and every read must happen before the first write.
func (r *ProductRepositoryFS) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.Client == nil {
		return errNilClient
	}
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

type productDoc struct {
	Name      string    `firestore:"name"`
	Count     int       `firestore:"count"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// Save = full upsert keyed by name.
func (r *ProductRepositoryFS) Save(ctx context.Context, p *productdom.Product) error {
	if r.Client == nil {
		return errNilClient
	}
	if err := p.Validate(); err != nil {
		return err
	}

	name := strings.TrimSpace(p.Name)
	doc := productDoc{
		Name:      name,
		Count:     p.Count,
		UpdatedAt: r.now().UTC(),
	}
	ref := r.col().Doc(name)
	var err error
	if tx := txFrom(ctx); tx != nil {
		err = tx.Set(ref, doc)
	} else {
		_, err = ref.Set(ctx, doc)
	}
	if err != nil {
		return fmt.Errorf("firestore: save product %s: %w", name, err)
	}
	return nil
}

func (r *ProductRepositoryFS) FindAll(ctx context.Context) ([]*productdom.Product, error) {
	if r.Client == nil {
		return nil, errNilClient
	}

	q := r.col().OrderBy("name", firestore.Asc)
	var it *firestore.DocumentIterator
	if tx := txFrom(ctx); tx != nil {
		it = tx.Documents(q)
	} else {
		it = q.Documents(ctx)
	}
	defer it.Stop()

	out := make([]*productdom.Product, 0)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := docToProduct(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepositoryFS) FindByName(ctx context.Context, name string) (*productdom.Product, error) {
	if r.Client == nil {
		return nil, errNilClient
	}

	n := strings.TrimSpace(name)
	if n == "" {
		return nil, productdom.ErrNotFound
	}

	ref := r.col().Doc(n)
	var (
		snap *firestore.DocumentSnapshot
		err  error
	)
	if tx := txFrom(ctx); tx != nil {
		snap, err = tx.Get(ref)
	} else {
		snap, err = ref.Get(ctx)
	}
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, productdom.ErrNotFound
		}
		return nil, err
	}
	return docToProduct(snap)
}

func docToProduct(snap *firestore.DocumentSnapshot) (*productdom.Product, error) {
	var d productDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("firestore: decode product %s: %w", snap.Ref.ID, err)
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = snap.Ref.ID
	}
	return &productdom.Product{Name: name, Count: d.Count}, nil
}
