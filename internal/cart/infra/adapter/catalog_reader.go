package adapter

import (
	"context"
	"errors"
	"fmt"

	cartapp "github.com/shanedle/cipher-cart/internal/cart/app"
	cartdomain "github.com/shanedle/cipher-cart/internal/cart/domain"
	catalogapp "github.com/shanedle/cipher-cart/internal/catalog/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

var _ cartapp.ProductReader = (*CatalogServiceReader)(nil)

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID string) (cartdomain.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return cartdomain.Product{}, fmt.Errorf("%w: %s", cartapp.ErrProductNotFound, productID)
	}
	if err != nil {
		return cartdomain.Product{}, err
	}

	return cartdomain.Product{
		ID:       p.ID,
		Name:     p.Name,
		Slug:     p.Slug,
		Price:    p.Price,
		Stock:    p.Stock,
		Discount: p.Discount,
	}, nil
}
