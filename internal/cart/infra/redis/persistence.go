// Package redis persists cart snapshots in a Redis hash per cart.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	goredis "github.com/go-redis/redis/v8"

	"github.com/shanedle/cipher-cart/internal/cart/app"
	"github.com/shanedle/cipher-cart/internal/cart/domain"
)

const (
	keyPrefix     = "cart:"
	field         = "cart"
	schemaVersion = 1
)

var ErrUnknownSnapshot = errors.New("unknown cart snapshot version")

// hashClient is the subset of *goredis.Client the store uses.
type hashClient interface {
	HGet(ctx context.Context, key, field string) *goredis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
	Ping(ctx context.Context) *goredis.StatusCmd
}

type Options struct {
	// TTL is refreshed on every save. Zero keeps keys forever.
	TTL     time.Duration
	Timeout time.Duration
}

type CartStore struct {
	client  hashClient
	ctx     context.Context
	ttl     time.Duration
	timeout time.Duration
}

// NewClient builds a client from "host:port" or a redis:// URL.
func NewClient(addr string) *goredis.Client {
	opts, err := goredis.ParseURL(addr)
	if err != nil {
		opts = &goredis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
			IdleTimeout:  180 * time.Second,
		}
	}

	client := goredis.NewClient(opts)
	client.AddHook(redisotel.NewTracingHook())
	return client
}

// NewCartStore binds the store to ctx; cart operations have no context of
// their own, so every call derives a timeout from it.
func NewCartStore(ctx context.Context, client hashClient, opts Options) *CartStore {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	return &CartStore{
		client:  client,
		ctx:     ctx,
		ttl:     opts.TTL,
		timeout: opts.Timeout,
	}
}

// WaitReady pings Redis until it answers, backing off exponentially up to
// 10s between attempts.
func (s *CartStore) WaitReady(ctx context.Context, attempts int, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return nil
		}

		backoff := time.Duration(250*(1<<uint(i))) * time.Millisecond
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
		log.Warn("redis not ready", slog.Any("err", err), slog.Int("attempt", i+1), slog.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("redis not ready after %d attempts", attempts)
}

func (s *CartStore) For(cartID string) app.Persistence {
	return snapshot{store: s, key: keyPrefix + cartID}
}

type snapshot struct {
	store *CartStore
	key   string
}

func (p snapshot) Load() (domain.Cart, error) {
	ctx, cancel := context.WithTimeout(p.store.ctx, p.store.timeout)
	defer cancel()

	val, err := p.store.client.HGet(ctx, p.key, field).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("redis HGet %s: %w", p.key, err)
	}
	return decode([]byte(val))
}

func (p snapshot) Save(cart domain.Cart) error {
	ctx, cancel := context.WithTimeout(p.store.ctx, p.store.timeout)
	defer cancel()

	bin, err := encode(cart)
	if err != nil {
		return err
	}
	if err := p.store.client.HSet(ctx, p.key, field, bin).Err(); err != nil {
		return fmt.Errorf("redis HSet %s: %w", p.key, err)
	}
	if p.store.ttl > 0 {
		if err := p.store.client.Expire(ctx, p.key, p.store.ttl).Err(); err != nil {
			return fmt.Errorf("redis Expire %s: %w", p.key, err)
		}
	}
	return nil
}

type snapshotDoc struct {
	Version int       `json:"version"`
	Items   []itemDoc `json:"items"`
}

type itemDoc struct {
	Product  productDoc `json:"product"`
	Quantity int        `json:"quantity"`
}

type productDoc struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Slug     string   `json:"slug,omitempty"`
	Price    float64  `json:"price"`
	Stock    *int     `json:"stock,omitempty"`
	Discount *float64 `json:"discount,omitempty"`
}

func encode(cart domain.Cart) ([]byte, error) {
	doc := snapshotDoc{Version: schemaVersion, Items: make([]itemDoc, 0, len(cart.Items))}
	for _, it := range cart.Items {
		doc.Items = append(doc.Items, itemDoc{
			Product: productDoc{
				ID:       it.Product.ID,
				Name:     it.Product.Name,
				Slug:     it.Product.Slug,
				Price:    it.Product.Price,
				Stock:    it.Product.Stock,
				Discount: it.Product.Discount,
			},
			Quantity: it.Quantity,
		})
	}
	return json.Marshal(doc)
}

func decode(bin []byte) (domain.Cart, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(bin, &doc); err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	if doc.Version != schemaVersion {
		return domain.Cart{}, fmt.Errorf("%w: %d", ErrUnknownSnapshot, doc.Version)
	}

	var cart domain.Cart
	for _, it := range doc.Items {
		cart.Items = append(cart.Items, domain.CartItem{
			Product: domain.Product{
				ID:       it.Product.ID,
				Name:     it.Product.Name,
				Slug:     it.Product.Slug,
				Price:    it.Product.Price,
				Stock:    it.Product.Stock,
				Discount: it.Product.Discount,
			},
			Quantity: it.Quantity,
		})
	}
	return cart, nil
}
