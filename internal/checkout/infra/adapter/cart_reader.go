package adapter

import (
	cartapp "github.com/shanedle/cipher-cart/internal/cart/app"
	checkoutapp "github.com/shanedle/cipher-cart/internal/checkout/app"
)

type CartSessionReader struct {
	sessions *cartapp.Sessions
}

var _ checkoutapp.CartSource = (*CartSessionReader)(nil)

func NewCartSessionReader(sessions *cartapp.Sessions) *CartSessionReader {
	return &CartSessionReader{sessions: sessions}
}

func (r *CartSessionReader) GroupedItems(cartID string) []checkoutapp.CartItem {
	grouped := r.sessions.Get(cartID).GroupedItems()

	items := make([]checkoutapp.CartItem, 0, len(grouped))
	for _, it := range grouped {
		items = append(items, checkoutapp.CartItem{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Discount:  it.Product.Discount,
			Quantity:  int64(it.Quantity),
		})
	}
	return items
}

func (r *CartSessionReader) Reset(cartID string) {
	r.sessions.Get(cartID).ResetCart()
}
