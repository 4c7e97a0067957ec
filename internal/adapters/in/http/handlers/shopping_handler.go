// internal/adapters/in/http/handlers/shopping_handler.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shopcart/internal/adapters/in/http/middleware"
	usecase "shopcart/internal/application/usecase"
	cartdom "shopcart/internal/domain/cart"
)

// ShoppingHandler は /products と /customers/{customerId}/cart を担当します。
type ShoppingHandler struct {
	uc  *usecase.ShoppingService
	log *zap.Logger
}

func NewShoppingHandler(uc *usecase.ShoppingService, log *zap.Logger) *ShoppingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ShoppingHandler{uc: uc, log: log}
}

// Mount registers the shopping routes on r.
func (h *ShoppingHandler) Mount(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{name}", h.getProduct)

	r.Route("/customers/{customerId}/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Post("/items", h.addItem)
		r.Post("/buy", h.buy)
	})
}

type productResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type cartLineResponse struct {
	Name  string `json:"name"`
	Qty   int    `json:"qty"`
	Stock int    `json:"stock"`
}

type cartResponse struct {
	CustomerID int64              `json:"customerId"`
	Items      []cartLineResponse `json:"items"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

type addItemRequest struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

type buyResponse struct {
	Purchased bool `json:"purchased"`
}

// GET /products
func (h *ShoppingHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.uc.GetAllProducts(r.Context())
	if err != nil {
		h.logError(r, "list products", err)
		writeUsecaseError(w, err)
		return
	}

	out := make([]productResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, productResponse{Name: p.Name, Count: p.Count})
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /products/{name}
func (h *ShoppingHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	p, err := h.uc.GetProductByName(r.Context(), name)
	if err != nil {
		h.logError(r, "get product", err)
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Name: p.Name, Count: p.Count})
}

// GET /customers/{customerId}/cart
func (h *ShoppingHandler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := customerFromPath(r)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c.ID, h.uc.CartSnapshot(c)))
}

// POST /customers/{customerId}/cart/items
func (h *ShoppingHandler) addItem(w http.ResponseWriter, r *http.Request) {
	c, err := customerFromPath(r)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	var req addItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if _, err := h.uc.AddToCart(r.Context(), c, req.Name, req.Qty); err != nil {
		h.logError(r, "add to cart", err)
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c.ID, h.uc.CartSnapshot(c)))
}

// POST /customers/{customerId}/cart/buy
func (h *ShoppingHandler) buy(w http.ResponseWriter, r *http.Request) {
	c, err := customerFromPath(r)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	ok, err := h.uc.Checkout(r.Context(), c)
	if err != nil {
		h.logError(r, "checkout", err)
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buyResponse{Purchased: ok})
}

func (h *ShoppingHandler) logError(r *http.Request, action string, err error) {
	h.log.Warn("[ShoppingHandler] "+action+" failed",
		zap.String("requestId", middleware.RequestIDFrom(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
}

func toCartResponse(customerID int64, snap cartdom.Snapshot) cartResponse {
	items := make([]cartLineResponse, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		items = append(items, cartLineResponse{Name: l.Product.Name, Qty: l.Qty, Stock: l.Product.Count})
	}
	return cartResponse{
		CustomerID: customerID,
		Items:      items,
		CreatedAt:  snap.CreatedAt,
		UpdatedAt:  snap.UpdatedAt,
	}
}
