// Package memory keeps cart snapshots in process memory.
package memory

import (
	"sync"

	"github.com/shanedle/cipher-cart/internal/cart/app"
	"github.com/shanedle/cipher-cart/internal/cart/domain"
)

type CartStore struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]domain.Cart)}
}

func (s *CartStore) For(cartID string) app.Persistence {
	return snapshot{store: s, cartID: cartID}
}

// Snapshot returns the last saved cart for cartID.
func (s *CartStore) Snapshot(cartID string) (domain.Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[cartID]
	return c.Clone(), ok
}

type snapshot struct {
	store  *CartStore
	cartID string
}

func (p snapshot) Load() (domain.Cart, error) {
	c, _ := p.store.Snapshot(p.cartID)
	return c, nil
}

func (p snapshot) Save(cart domain.Cart) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	p.store.carts[p.cartID] = cart.Clone()
	return nil
}
