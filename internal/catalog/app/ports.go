package app

import (
	"context"

	"github.com/shanedle/cipher-cart/internal/catalog/domain"
)

// ContentStore is the headless content store. QueryProducts orders by
// relevance then name when Term is set, by name otherwise.
type ContentStore interface {
	QueryProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
