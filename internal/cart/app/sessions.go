package app

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultCacheSize = 10000
	DefaultCacheTTL  = 15 * time.Minute
)

// CacheOptions bound the in-memory Stores. An idle Store is dropped after
// TTL and reloaded from the backend on next use; the least recently used
// one goes first once Size is reached.
type CacheOptions struct {
	Size int
	TTL  time.Duration
}

// Sessions keeps one Store per client cart id.
type Sessions struct {
	mu      sync.Mutex
	stores  *expirable.LRU[string, *Store]
	backend Backend
	log     *slog.Logger
}

func NewSessions(backend Backend, opts CacheOptions, log *slog.Logger) *Sessions {
	if opts.Size <= 0 {
		opts.Size = DefaultCacheSize
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sessions{
		stores:  expirable.NewLRU[string, *Store](opts.Size, nil, opts.TTL),
		backend: backend,
		log:     log,
	}
}

// Get returns the Store for cartID, loading it from the backend when it is
// not cached. Every hit restarts the idle timer.
func (s *Sessions) Get(cartID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.stores.Get(cartID); ok {
		s.stores.Add(cartID, st)
		return st
	}

	var p Persistence
	if s.backend != nil {
		p = s.backend.For(cartID)
	}
	st := NewStore(p, s.log.With(slog.String("cart_id", cartID)))
	s.stores.Add(cartID, st)
	return st
}

func (s *Sessions) Len() int {
	return s.stores.Len()
}
