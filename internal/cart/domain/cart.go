package domain

import "github.com/shanedle/cipher-cart/pkg/pricing"

// Product is the cart's copy of a content-store product. It is read-only to
// the cart.
type Product struct {
	ID       string
	Name     string
	Slug     string
	Price    float64
	Stock    *int
	Discount *float64
}

// EffectivePrice is the unit price after discount.
func (p Product) EffectivePrice() float64 {
	return pricing.EffectivePrice(p.Price, p.Discount)
}

// Clone copies the optional fields so the result shares no memory with p.
func (p Product) Clone() Product {
	if p.Stock != nil {
		v := *p.Stock
		p.Stock = &v
	}
	if p.Discount != nil {
		v := *p.Discount
		p.Discount = &v
	}
	return p
}

type CartItem struct {
	Product  Product
	Quantity int
}

type Cart struct {
	Items []CartItem
}

// Normalize merges items that share a product id, keeping the first
// occurrence's position and product, and drops items with quantity < 1.
func (c Cart) Normalize() Cart {
	out := make([]CartItem, 0, len(c.Items))
	index := make(map[string]int, len(c.Items))
	for _, it := range c.Items {
		if it.Quantity < 1 || it.Product.ID == "" {
			continue
		}
		if i, ok := index[it.Product.ID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.Product.ID] = len(out)
		out = append(out, it)
	}
	return Cart{Items: out}
}

// Clone returns a deep copy of c.
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	for i, it := range c.Items {
		items[i] = CartItem{Product: it.Product.Clone(), Quantity: it.Quantity}
	}
	return Cart{Items: items}
}
