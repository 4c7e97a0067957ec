package usecase

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlrepo "shopcart/internal/adapters/out/db"
	"shopcart/internal/adapters/out/memory"
	customerdom "shopcart/internal/domain/customer"
	productdom "shopcart/internal/domain/product"
)

func newSQLiteProducts(t *testing.T, seed ...*productdom.Product) *sqlrepo.ProductRepositorySQL {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	ctx := context.Background()
	require.NoError(t, sqlrepo.EnsureSchema(ctx, conn, sqlrepo.DialectSQLite))

	repo := sqlrepo.NewProductRepositorySQL(conn, sqlrepo.DialectSQLite)
	for _, p := range seed {
		require.NoError(t, repo.Save(ctx, p))
	}
	return repo
}

func TestCheckout_SQLiteTwoCustomersCannotOversell(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteProducts(t, &productdom.Product{Name: firstProductName, Count: 10})
	svc := NewShoppingService(repo, memory.NewCartStoreMem(0, nil), WithClock(fixedClock{t: testNow}))
	alice := customerdom.Customer{ID: 1}
	bob := customerdom.Customer{ID: 2}

	_, err := svc.AddToCart(ctx, alice, firstProductName, 9)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, bob, firstProductName, 9)
	require.NoError(t, err)

	ok, err := svc.Checkout(ctx, alice)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Checkout(ctx, bob)
	assert.False(t, ok)
	assert.EqualError(t, err, "Insufficient quantity of product Product")
	assert.ErrorIs(t, err, ErrInsufficientQuantity)

	stored, err := repo.FindByName(ctx, firstProductName)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Count)
}

// Separate services model separate processes sharing one database.
func TestCheckout_SQLiteConcurrentServices(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteProducts(t, &productdom.Product{Name: firstProductName, Count: 10})

	const buyers = 4
	svcs := make([]*ShoppingService, buyers)
	for i := range svcs {
		svcs[i] = NewShoppingService(repo, memory.NewCartStoreMem(0, nil))
		_, err := svcs[i].AddToCart(ctx, customerdom.Customer{ID: int64(i + 1)}, firstProductName, 3)
		require.NoError(t, err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		purchased int
	)
	for i := range svcs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := svcs[i].Checkout(ctx, customerdom.Customer{ID: int64(i + 1)})
			if err != nil {
				assert.ErrorIs(t, err, ErrInsufficientQuantity)
				return
			}
			if ok {
				mu.Lock()
				purchased++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, purchased)
	stored, err := repo.FindByName(ctx, firstProductName)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Count)
}

// failSecondSave fails saving secondProductName; RunInTx is promoted from the embedded repo.
type failSecondSave struct {
	*sqlrepo.ProductRepositorySQL
}

var errSaveRefused = errors.New("save refused")

func (r failSecondSave) Save(ctx context.Context, p *productdom.Product) error {
	if p.Name == secondProductName {
		return errSaveRefused
	}
	return r.ProductRepositorySQL.Save(ctx, p)
}

func TestCheckout_SQLiteSaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	base := newSQLiteProducts(t,
		&productdom.Product{Name: firstProductName, Count: 5},
		&productdom.Product{Name: secondProductName, Count: 5},
	)
	svc := NewShoppingService(failSecondSave{base}, memory.NewCartStoreMem(0, nil))
	c := customerdom.Customer{ID: 9}

	_, err := svc.AddToCart(ctx, c, firstProductName, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, c, secondProductName, 2)
	require.NoError(t, err)

	ok, err := svc.Checkout(ctx, c)
	assert.False(t, ok)
	assert.ErrorIs(t, err, errSaveRefused)

	first, err := base.FindByName(ctx, firstProductName)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Count, "first save is rolled back")
}
