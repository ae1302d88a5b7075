package app

import (
	"context"

	"github.com/shanedle/cipher-cart/internal/checkout/domain"
)

type CartItem struct {
	ProductID string
	Name      string
	Price     float64
	Discount  *float64
	Quantity  int64
}

type CartSource interface {
	GroupedItems(cartID string) []CartItem
	Reset(cartID string)
}

type Product struct {
	ID       string
	Name     string
	Price    float64
	Discount *float64
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

// SessionProvider creates hosted checkout sessions and reports whether
// they were paid.
type SessionProvider interface {
	CreateCheckoutSession(ctx context.Context, req domain.SessionRequest) (string, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (domain.SessionState, error)
}

type OrderRecorder interface {
	RecordOrder(ctx context.Context, order domain.PlacedOrder) error
}
