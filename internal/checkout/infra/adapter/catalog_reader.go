package adapter

import (
	"context"

	catalogapp "github.com/shanedle/cipher-cart/internal/catalog/app"
	checkoutapp "github.com/shanedle/cipher-cart/internal/checkout/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

var _ checkoutapp.CatalogReader = (*CatalogServiceReader)(nil)

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID string) (checkoutapp.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if err != nil {
		return checkoutapp.Product{}, err
	}

	return checkoutapp.Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Discount: p.Discount,
	}, nil
}
