package app

import "github.com/shanedle/cipher-cart/internal/cart/domain"

// Summary is what the cart page renders.
type Summary struct {
	Items    []domain.CartItem
	SubTotal float64
	Total    float64
	Discount float64
}

func summarize(c domain.Cart) Summary {
	sub := subTotal(c.Items)
	tot := total(c.Items)

	discount := sub - tot
	if discount < 0 {
		discount = 0
	}
	return Summary{
		Items:    c.Clone().Items,
		SubTotal: sub,
		Total:    tot,
		Discount: discount,
	}
}

func subTotal(items []domain.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Product.Price * float64(it.Quantity)
	}
	return sum
}

func total(items []domain.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Product.EffectivePrice() * float64(it.Quantity)
	}
	return sum
}
