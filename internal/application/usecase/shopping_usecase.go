// internal/application/usecase/shopping_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	cartdom "shopcart/internal/domain/cart"
	customerdom "shopcart/internal/domain/customer"
	productdom "shopcart/internal/domain/product"
)

var (
	ErrShoppingInvalidArgument = errors.New("shopping_usecase: invalid argument")
	ErrShoppingNotConfigured   = errors.New("shopping_usecase: not configured")
)

// Purchase outcomes reported to PurchaseRecorder.
const (
	OutcomeEmpty        = "empty"
	OutcomePurchased    = "purchased"
	OutcomeInsufficient = "insufficient"
	OutcomeFailed       = "failed"
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// PurchaseRecorder receives one outcome per Buy call (metrics hook).
type PurchaseRecorder interface {
	ObservePurchase(outcome string, lines int)
}

type noopRecorder struct{}

func (noopRecorder) ObservePurchase(string, int) {}

// Option configures ShoppingService.
type Option func(*ShoppingService)

func WithClock(c Clock) Option {
	return func(s *ShoppingService) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *ShoppingService) {
		if l != nil {
			s.log = l
		}
	}
}

func WithRecorder(r PurchaseRecorder) Option {
	return func(s *ShoppingService) {
		if r != nil {
			s.rec = r
		}
	}
}

// ShoppingService validates and commits purchases and hands out per-customer carts.
// GetCart, AddToCart and Checkout are serialized by mu; Buy on a caller-held cart is not.
type ShoppingService struct {
	mu sync.Mutex

	repo  productdom.RepositoryPort
	carts cartdom.Store
	clock Clock
	log   *zap.Logger
	rec   PurchaseRecorder
}

func NewShoppingService(repo productdom.RepositoryPort, carts cartdom.Store, opts ...Option) *ShoppingService {
	s := &ShoppingService{
		repo:  repo,
		carts: carts,
		clock: systemClock{},
		log:   zap.NewNop(),
		rec:   noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCart returns the customer's cart, creating and caching an empty one on first use.
// Repeated calls return the same *Cart while the store keeps it.
func (s *ShoppingService) GetCart(c customerdom.Customer) *cartdom.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCart(c)
}

func (s *ShoppingService) getCart(c customerdom.Customer) *cartdom.Cart {
	if existing, ok := s.carts.Get(c.ID); ok && existing != nil {
		return existing
	}

	owner := c
	fresh := cartdom.New(&owner, s.clock.Now())
	s.carts.Put(c.ID, fresh)

	s.log.Debug("[shopping_uc] cart created", zap.Int64("customerId", c.ID))
	return fresh
}

// Buy purchases every line item of cart.
//
//   - empty cart: (false, nil), nothing is touched
//   - any line with product.Count < qty: *BuyError naming the first such product,
//     nothing is subtracted or saved
//   - lines with qty <= 0 are skipped (no subtract, no save); a zero line is a
//     deliberate no-op, there is nothing to take from stock
//   - otherwise each product is decremented then saved; returns (true, nil)
//
// Buy trusts the counts carried by the cart's products. Checkout re-reads them first.
// A save failure aborts the loop; products saved before it stay saved unless the
// call runs inside a repository transaction (see Checkout).
func (s *ShoppingService) Buy(ctx context.Context, c *cartdom.Cart) (bool, error) {
	if s.repo == nil {
		return false, ErrShoppingNotConfigured
	}

	lines := c.Lines()
	if len(lines) == 0 {
		s.rec.ObservePurchase(OutcomeEmpty, 0)
		return false, nil
	}

	// 1) validate everything before mutating anything
	for _, l := range lines {
		if l.Qty <= 0 {
			continue
		}
		if !l.Product.Has(l.Qty) {
			err := &BuyError{
				Product:   l.Product.Name,
				Requested: l.Qty,
				Available: l.Product.Count,
			}
			s.log.Info("[shopping_uc] buy rejected",
				zap.String("product", l.Product.Name),
				zap.Int("requested", l.Qty),
				zap.Int("available", l.Product.Count),
			)
			s.rec.ObservePurchase(OutcomeInsufficient, len(lines))
			return false, err
		}
	}

	// 2) commit
	for _, l := range lines {
		if l.Qty <= 0 {
			s.log.Debug("[shopping_uc] skip non-positive line",
				zap.String("product", l.Product.Name),
				zap.Int("qty", l.Qty),
			)
			continue
		}

		l.Product.SubtractCount(l.Qty)
		if err := s.repo.Save(ctx, l.Product); err != nil {
			s.log.Error("[shopping_uc] save failed",
				zap.String("product", l.Product.Name),
				zap.Error(err),
			)
			s.rec.ObservePurchase(OutcomeFailed, len(lines))
			return false, fmt.Errorf("usecase: save product %s: %w", l.Product.Name, err)
		}
	}

	s.log.Info("[shopping_uc] buy ok", zap.Int("lines", len(lines)))
	s.rec.ObservePurchase(OutcomePurchased, len(lines))
	return true, nil
}

// CartSnapshot returns a detached copy of the customer's cart.
func (s *ShoppingService) CartSnapshot(c customerdom.Customer) cartdom.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCart(c).Snapshot()
}

// GetAllProducts delegates to the repository.
func (s *ShoppingService) GetAllProducts(ctx context.Context) ([]*productdom.Product, error) {
	if s.repo == nil {
		return nil, ErrShoppingNotConfigured
	}
	return s.repo.FindAll(ctx)
}

// GetProductByName delegates to the repository.
func (s *ShoppingService) GetProductByName(ctx context.Context, name string) (*productdom.Product, error) {
	if s.repo == nil {
		return nil, ErrShoppingNotConfigured
	}
	return s.repo.FindByName(ctx, name)
}

// AddToCart resolves name and adds qty of it to the customer's cart.
// If the cart already holds a product with that name, the same instance is reused.
func (s *ShoppingService) AddToCart(ctx context.Context, c customerdom.Customer, name string, qty int) (*cartdom.Cart, error) {
	n := strings.TrimSpace(name)
	if n == "" || qty <= 0 {
		return nil, ErrShoppingInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	crt := s.getCart(c)

	p, ok := crt.Lookup(n)
	if !ok {
		found, err := s.GetProductByName(ctx, n)
		if err != nil {
			return nil, err
		}
		p = found
	}

	if err := crt.Add(p, qty, s.clock.Now()); err != nil {
		return nil, err
	}
	return crt, nil
}

// Checkout buys the customer's cart and drops it from the store on success.
//
// Stock is re-read from the repository for every line before Buy runs, so a
// cart filled before another customer's checkout is validated against the
// current count. When the repository implements productdom.TxRunner the
// re-read and the saves share one transaction.
func (s *ShoppingService) Checkout(ctx context.Context, c customerdom.Customer) (bool, error) {
	if s.repo == nil {
		return false, ErrShoppingNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	crt := s.getCart(c)

	var ok bool
	err := s.runInTx(ctx, func(ctx context.Context) error {
		current, err := s.reloadCart(ctx, crt)
		if err != nil {
			return err
		}
		ok, err = s.Buy(ctx, current)
		return err
	})
	if err != nil || !ok {
		return false, err
	}

	s.carts.Delete(c.ID)
	return true, nil
}

func (s *ShoppingService) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := s.repo.(productdom.TxRunner); ok {
		return tx.RunInTx(ctx, fn)
	}
	return fn(ctx)
}

// reloadCart copies crt with each purchasable line pointing at the stored product.
// 数量 0 以下の行は Buy がスキップするためそのまま残す
func (s *ShoppingService) reloadCart(ctx context.Context, crt *cartdom.Cart) (*cartdom.Cart, error) {
	out := cartdom.New(crt.Owner, crt.CreatedAt)
	seen := make(map[string]*productdom.Product)

	for _, l := range crt.Lines() {
		p := l.Product
		if l.Qty > 0 {
			cur, ok := seen[p.Name]
			if !ok {
				found, err := s.repo.FindByName(ctx, p.Name)
				if err != nil {
					return nil, fmt.Errorf("usecase: reload product %s: %w", p.Name, err)
				}
				cur = found
				seen[p.Name] = cur
			}
			p = cur
		}
		if err := out.Add(p, l.Qty, crt.UpdatedAt); err != nil {
			return nil, err
		}
	}
	return out, nil
}
