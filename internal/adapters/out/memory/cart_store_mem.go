// internal/adapters/out/memory/cart_store_mem.go
package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	cartdom "shopcart/internal/domain/cart"
)

type cartEntry struct {
	cart     *cartdom.Cart
	lastSeen time.Time
}

// CartStoreMem is a cart.Store with TTL eviction.
//
// Policy:
// - an entry expires ttl after its last Get/Put
// - expired entries are dropped lazily on Get and in bulk by Sweep
// - Run sweeps periodically until ctx is done
type CartStoreMem struct {
	mu      sync.Mutex
	entries map[int64]cartEntry
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger
}

// NewCartStoreMem creates a store. ttl <= 0 falls back to cart.DefaultCartTTL.
func NewCartStoreMem(ttl time.Duration, log *zap.Logger) *CartStoreMem {
	if ttl <= 0 {
		ttl = cartdom.DefaultCartTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CartStoreMem{
		entries: make(map[int64]cartEntry),
		ttl:     ttl,
		now:     time.Now,
		log:     log,
	}
}

// NewCartStoreMemWithClock is useful for tests.
func NewCartStoreMemWithClock(ttl time.Duration, now func() time.Time) *CartStoreMem {
	s := NewCartStoreMem(ttl, nil)
	if now != nil {
		s.now = now
	}
	return s
}

func (s *CartStoreMem) Get(customerID int64) (*cartdom.Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[customerID]
	if !ok {
		return nil, false
	}

	now := s.now()
	if s.expired(e, now) {
		delete(s.entries, customerID)
		return nil, false
	}

	e.lastSeen = now
	s.entries[customerID] = e
	return e.cart, true
}

func (s *CartStoreMem) Put(customerID int64, c *cartdom.Cart) {
	if c == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[customerID] = cartEntry{cart: c, lastSeen: s.now()}
}

func (s *CartStoreMem) Delete(customerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, customerID)
}

// Len reports how many carts are currently held (expired ones included until swept).
func (s *CartStoreMem) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops every expired entry and returns how many were removed.
func (s *CartStoreMem) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (s *CartStoreMem) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				s.log.Info("[cart_store] swept expired carts", zap.Int("removed", n))
			}
		}
	}
}

func (s *CartStoreMem) expired(e cartEntry, now time.Time) bool {
	return now.Sub(e.lastSeen) >= s.ttl
}
