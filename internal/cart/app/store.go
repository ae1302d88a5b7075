package app

import (
	"log/slog"
	"sync"

	"github.com/shanedle/cipher-cart/internal/cart/domain"
)

// Reader is the read side of a cart.
type Reader interface {
	ItemCount(productID string) int
	GroupedItems() []domain.CartItem
	SubTotalPrice() float64
	TotalPrice() float64
	Snapshot() Summary
}

// Commands is what UI surfaces get when they may also mutate the cart.
type Commands interface {
	Reader
	AddItem(product domain.Product)
	IncreaseQuantity(productID string)
	DecreaseQuantity(productID string)
	DeleteCartProduct(productID string)
	ResetCart()
}

// Store owns one cart. Every mutation runs under the lock and writes the
// whole snapshot before returning.
type Store struct {
	mu      sync.Mutex
	cart    domain.Cart
	persist Persistence
	log     *slog.Logger
}

var _ Commands = (*Store)(nil)

// NewStore loads the persisted cart. A failed load starts empty.
func NewStore(persist Persistence, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{persist: persist, log: log}

	if persist != nil {
		cart, err := persist.Load()
		if err != nil {
			log.Warn("cart load failed, starting empty", slog.Any("err", err))
		} else {
			s.cart = cart.Normalize()
		}
	}
	return s
}

func (s *Store) AddItem(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID); i >= 0 {
		s.cart.Items[i].Quantity++
	} else {
		s.cart.Items = append(s.cart.Items, domain.CartItem{Product: product.Clone(), Quantity: 1})
	}
	s.save()
}

func (s *Store) IncreaseQuantity(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.cart.Items[i].Quantity++
	s.save()
}

// DecreaseQuantity removes the item once its quantity reaches zero.
func (s *Store) DecreaseQuantity(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	if s.cart.Items[i].Quantity > 1 {
		s.cart.Items[i].Quantity--
	} else {
		s.removeAt(i)
	}
	s.save()
}

func (s *Store) DeleteCartProduct(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.removeAt(i)
	s.save()
}

func (s *Store) ResetCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = domain.Cart{}
	s.save()
}

func (s *Store) ItemCount(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID); i >= 0 {
		return s.cart.Items[i].Quantity
	}
	return 0
}

// GroupedItems returns a copy of the items in insertion order.
func (s *Store) GroupedItems() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Clone().Items
}

// SubTotalPrice sums undiscounted prices.
func (s *Store) SubTotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return subTotal(s.cart.Items)
}

// TotalPrice sums effective prices.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return total(s.cart.Items)
}

// Snapshot reads the items and both totals under one lock, so the
// figures always describe the same cart.
func (s *Store) Snapshot() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return summarize(s.cart)
}

func (s *Store) indexOf(productID string) int {
	for i, it := range s.cart.Items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
}

// save must be called with mu held.
func (s *Store) save() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(s.cart.Clone()); err != nil {
		s.log.Error("cart save failed", slog.Any("err", err), slog.Int("items", len(s.cart.Items)))
	}
}
