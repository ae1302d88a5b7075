package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartNormalize(t *testing.T) {
	a := Product{ID: "a", Price: 10}
	b := Product{ID: "b", Price: 20}

	got := Cart{Items: []CartItem{
		{Product: a, Quantity: 1},
		{Product: b, Quantity: 0},
		{Product: a, Quantity: 2},
		{Product: b, Quantity: 3},
		{Product: Product{}, Quantity: 4},
	}}.Normalize()

	assert.Equal(t, []CartItem{
		{Product: a, Quantity: 3},
		{Product: b, Quantity: 3},
	}, got.Items)
}

func TestCartClone(t *testing.T) {
	c := Cart{Items: []CartItem{{Product: Product{ID: "a"}, Quantity: 1}}}
	cp := c.Clone()
	cp.Items[0].Quantity = 9

	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestCartCloneCopiesOptionalFields(t *testing.T) {
	stock, discount := 3, 25.0
	c := Cart{Items: []CartItem{{Product: Product{ID: "a", Price: 100, Stock: &stock, Discount: &discount}, Quantity: 1}}}

	cp := c.Clone()
	*cp.Items[0].Product.Stock = 0
	*cp.Items[0].Product.Discount = 90

	assert.Equal(t, 3, *c.Items[0].Product.Stock)
	assert.Equal(t, 25.0, *c.Items[0].Product.Discount)
	assert.InDelta(t, 75, c.Items[0].Product.EffectivePrice(), 1e-9)
}

func TestProductCloneNilFields(t *testing.T) {
	p := Product{ID: "a"}.Clone()
	assert.Nil(t, p.Stock)
	assert.Nil(t, p.Discount)
}
