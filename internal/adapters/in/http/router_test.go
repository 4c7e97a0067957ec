package httpin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"shopcart/internal/adapters/out/memory"
	usecase "shopcart/internal/application/usecase"
	productdom "shopcart/internal/domain/product"
	"shopcart/internal/infra/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testServer struct {
	h    http.Handler
	repo *memory.ProductRepositoryMem
	m    *metrics.Metrics
}

func newTestServer(t *testing.T, seed ...*productdom.Product) *testServer {
	t.Helper()
	repo := memory.NewProductRepositoryMem(seed...)
	carts := memory.NewCartStoreMem(time.Hour, nil)
	m := metrics.New()
	uc := usecase.NewShoppingService(repo, carts, usecase.WithRecorder(m))

	return &testServer{
		h: NewRouter(RouterDeps{
			ShoppingUC:     uc,
			Metrics:        m,
			MetricsHandler: m.Handler(),
		}),
		repo: repo,
		m:    m,
	}
}

func mustProduct(t *testing.T, name string, count int) *productdom.Product {
	t.Helper()
	p, err := productdom.New(name, count)
	require.NoError(t, err)
	return p
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProducts(t *testing.T) {
	s := newTestServer(t, mustProduct(t, "Pear", 2), mustProduct(t, "Apple", 5))

	rec := s.do(t, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Apple","count":5},{"name":"Pear","count":2}]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/products/Pear", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Pear","count":2}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/products/Kiwi", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_AddAndBuy(t *testing.T) {
	s := newTestServer(t, mustProduct(t, "Apple", 5))

	rec := s.do(t, http.MethodGet, "/customers/7/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var empty struct {
		CustomerID int64             `json:"customerId"`
		Items      []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	assert.Equal(t, int64(7), empty.CustomerID)
	assert.Empty(t, empty.Items)

	rec = s.do(t, http.MethodPost, "/customers/7/cart/items", `{"name":"Apple","qty":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/customers/7/cart/items", `{"name":"Apple","qty":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Items []struct {
			Name  string `json:"name"`
			Qty   int    `json:"qty"`
			Stock int    `json:"stock"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Apple", view.Items[0].Name)
	assert.Equal(t, 3, view.Items[0].Qty)

	rec = s.do(t, http.MethodPost, "/customers/7/cart/buy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"purchased":true}`, rec.Body.String())

	p, err := s.repo.FindByName(context.Background(), "Apple")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Count)

	// the cart was dropped after checkout
	rec = s.do(t, http.MethodPost, "/customers/7/cart/buy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"purchased":false}`, rec.Body.String())
}

func TestCart_BuyInsufficient(t *testing.T) {
	s := newTestServer(t, mustProduct(t, "Apple", 1))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/customers/3/cart/items", `{"name":"Apple","qty":2}`).Code)

	rec := s.do(t, http.MethodPost, "/customers/3/cart/buy", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Insufficient quantity of product Apple"}`, rec.Body.String())

	p, err := s.repo.FindByName(context.Background(), "Apple")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Count)
}

func TestCart_ConcurrentBuysAndProductReads(t *testing.T) {
	s := newTestServer(t, mustProduct(t, "Apple", 100))

	const buyers = 10
	var wg sync.WaitGroup
	for i := 1; i <= buyers; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			base := fmt.Sprintf("/customers/%d/cart", id)
			assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, base+"/items", `{"name":"Apple","qty":2}`).Code)
			assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, base, "").Code)
			assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, base+"/buy", "").Code)
		}(i)
		go func() {
			defer wg.Done()
			assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/products", "").Code)
			assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/products/Apple", "").Code)
		}()
	}
	wg.Wait()

	p, err := s.repo.FindByName(context.Background(), "Apple")
	require.NoError(t, err)
	assert.Equal(t, 100-2*buyers, p.Count)
}

func TestCart_BadInput(t *testing.T) {
	s := newTestServer(t, mustProduct(t, "Apple", 1))

	tests := []struct {
		name, path, body string
		want             int
	}{
		{"non numeric customer", "/customers/abc/cart/items", `{"name":"Apple","qty":1}`, http.StatusBadRequest},
		{"zero customer", "/customers/0/cart/items", `{"name":"Apple","qty":1}`, http.StatusBadRequest},
		{"zero qty", "/customers/1/cart/items", `{"name":"Apple","qty":0}`, http.StatusBadRequest},
		{"negative qty", "/customers/1/cart/items", `{"name":"Apple","qty":-4}`, http.StatusBadRequest},
		{"blank name", "/customers/1/cart/items", `{"name":" ","qty":1}`, http.StatusBadRequest},
		{"bad json", "/customers/1/cart/items", `{"name":`, http.StatusBadRequest},
		{"unknown field", "/customers/1/cart/items", `{"name":"Apple","qty":1,"price":3}`, http.StatusBadRequest},
		{"unknown product", "/customers/1/cart/items", `{"name":"Kiwi","qty":1}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

type failingRepo struct{ productdom.RepositoryPort }

func (failingRepo) FindAll(context.Context) ([]*productdom.Product, error) {
	return nil, errors.New("db down")
}

func TestProducts_InternalError(t *testing.T) {
	uc := usecase.NewShoppingService(failingRepo{}, memory.NewCartStoreMem(time.Hour, nil))
	h := NewRouter(RouterDeps{ShoppingUC: uc})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/customers/1/cart/buy", "")

	rec := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `shopcart_purchases_total{outcome="empty"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/customers/{customerId}/cart/buy"`)
}
