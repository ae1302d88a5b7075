package app

import (
	"context"
	"errors"

	"github.com/shanedle/cipher-cart/internal/cart/domain"
)

// Persistence loads and saves one client's cart snapshot.
type Persistence interface {
	Load() (domain.Cart, error)
	Save(cart domain.Cart) error
}

// Backend hands out the Persistence for a cart id.
type Backend interface {
	For(cartID string) Persistence
}

var ErrProductNotFound = errors.New("product not found")

// ProductReader resolves products for the add-to-cart entry points.
type ProductReader interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
}
