package features

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"shopcart/internal/adapters/out/memory"
	"shopcart/internal/application/usecase"
	cartdom "shopcart/internal/domain/cart"
	productdom "shopcart/internal/domain/product"
)

// countingRepo wraps the in-memory repository and counts Save calls per product name.
type countingRepo struct {
	*memory.ProductRepositoryMem

	mu    sync.Mutex
	saves map[string]int
}

func (r *countingRepo) Save(ctx context.Context, p *productdom.Product) error {
	r.mu.Lock()
	r.saves[p.Name]++
	r.mu.Unlock()
	return r.ProductRepositoryMem.Save(ctx, p)
}

type shoppingTestContext struct {
	repo     *countingRepo
	svc      *usecase.ShoppingService
	products map[string]*productdom.Product
	carts    map[string]*cartdom.Cart
	ok       bool
	err      error
}

func (c *shoppingTestContext) reset() {
	c.repo = &countingRepo{
		ProductRepositoryMem: memory.NewProductRepositoryMem(),
		saves:                map[string]int{},
	}
	c.svc = usecase.NewShoppingService(c.repo, memory.NewCartStoreMem(0, nil))
	c.products = map[string]*productdom.Product{}
	c.carts = map[string]*cartdom.Cart{}
	c.ok = false
	c.err = nil
}

func (c *shoppingTestContext) anEmptyProductCatalog() error {
	return nil
}

func (c *shoppingTestContext) aProductWithCount(name string, count int) error {
	p, err := productdom.New(name, count)
	if err != nil {
		return err
	}
	c.products[name] = p
	return nil
}

func (c *shoppingTestContext) cart(name string) *cartdom.Cart {
	crt, ok := c.carts[name]
	if !ok {
		crt = cartdom.New(nil, time.Now())
		c.carts[name] = crt
	}
	return crt
}

func (c *shoppingTestContext) cartIsEmpty(name string) error {
	c.cart(name)
	return nil
}

func (c *shoppingTestContext) cartRequests(name string, qty int, productName string) error {
	p, ok := c.products[productName]
	if !ok {
		return fmt.Errorf("unknown product %q", productName)
	}
	return c.cart(name).Add(p, qty, time.Now())
}

func (c *shoppingTestContext) iBuyCart(name string) error {
	c.ok, c.err = c.svc.Buy(context.Background(), c.cart(name))
	return nil
}

func (c *shoppingTestContext) thePurchaseSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %v", c.err)
	}
	if !c.ok {
		return fmt.Errorf("expected Buy to return true")
	}
	return nil
}

func (c *shoppingTestContext) nothingIsPurchased() error {
	if c.err != nil {
		return fmt.Errorf("expected no error, got %v", c.err)
	}
	if c.ok {
		return fmt.Errorf("expected Buy to return false")
	}
	return nil
}

func (c *shoppingTestContext) thePurchaseFailsWith(msg string) error {
	if c.err == nil {
		return fmt.Errorf("expected error %q, got none", msg)
	}
	if c.err.Error() != msg {
		return fmt.Errorf("expected error %q, got %q", msg, c.err.Error())
	}
	return nil
}

func (c *shoppingTestContext) productHasCount(name string, count int) error {
	p, ok := c.products[name]
	if !ok {
		return fmt.Errorf("unknown product %q", name)
	}
	if p.Count != count {
		return fmt.Errorf("expected %s count %d, got %d", name, count, p.Count)
	}
	return nil
}

func (c *shoppingTestContext) productWasSaved(name string, times int) error {
	c.repo.mu.Lock()
	got := c.repo.saves[name]
	c.repo.mu.Unlock()
	if got != times {
		return fmt.Errorf("expected %s saved %d times, got %d", name, times, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &shoppingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty product catalog$`, tc.anEmptyProductCatalog)
	ctx.Step(`^a product "([^"]*)" with count (\d+)$`, tc.aProductWithCount)
	ctx.Step(`^cart "([^"]*)" requests (-?\d+) of "([^"]*)"$`, tc.cartRequests)
	ctx.Step(`^cart "([^"]*)" is empty$`, tc.cartIsEmpty)

	// When steps
	ctx.Step(`^I buy cart "([^"]*)"$`, tc.iBuyCart)

	// Then steps
	ctx.Step(`^the purchase succeeds$`, tc.thePurchaseSucceeds)
	ctx.Step(`^nothing is purchased$`, tc.nothingIsPurchased)
	ctx.Step(`^the purchase fails with "([^"]*)"$`, tc.thePurchaseFailsWith)
	ctx.Step(`^product "([^"]*)" has count (\d+)$`, tc.productHasCount)
	ctx.Step(`^product "([^"]*)" was saved (\d+) times?$`, tc.productWasSaved)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../../../features/shopping.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
