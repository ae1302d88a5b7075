package app

import (
	"errors"

	"github.com/shanedle/cipher-cart/internal/cart/domain"
)

var (
	ErrOutOfStock = errors.New("product is out of stock")
	ErrStockLimit = errors.New("cannot add more than available stock")
)

// QuantityControl drives the +/- buttons of one product.
type QuantityControl struct {
	cart    Commands
	product domain.Product
}

func NewQuantityControl(cart Commands, product domain.Product) QuantityControl {
	return QuantityControl{cart: cart, product: product}
}

func (q QuantityControl) Count() int {
	return q.cart.ItemCount(q.product.ID)
}

// CanIncrease is false once the cart holds the whole stock.
func (q QuantityControl) CanIncrease() bool {
	if q.product.Stock == nil {
		return true
	}
	return q.Count() < *q.product.Stock
}

func (q QuantityControl) Increase() error {
	if !q.CanIncrease() {
		return ErrStockLimit
	}
	if q.Count() == 0 {
		q.cart.AddItem(q.product)
		return nil
	}
	q.cart.IncreaseQuantity(q.product.ID)
	return nil
}

func (q QuantityControl) Decrease() {
	q.cart.DecreaseQuantity(q.product.ID)
}

func (q QuantityControl) Remove() {
	q.cart.DeleteCartProduct(q.product.ID)
}

// AddToCart is the add-to-cart button: disabled when stock is exactly zero.
func AddToCart(cart Commands, product domain.Product) error {
	if product.Stock != nil && *product.Stock == 0 {
		return ErrOutOfStock
	}
	cart.AddItem(product)
	return nil
}
