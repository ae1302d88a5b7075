package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount *float64
		want     float64
	}{
		{name: "absent discount", price: 50, discount: nil, want: 50},
		{name: "zero discount", price: 50, discount: Percent(0), want: 50},
		{name: "negative discount", price: 50, discount: Percent(-10), want: 50},
		{name: "twenty percent", price: 100, discount: Percent(20), want: 80},
		{name: "full discount", price: 100, discount: Percent(100), want: 0},
		// Floor-to-zero above 100 is kept as-is; confirm with product owners
		// before relying on it.
		{name: "over one hundred floors at zero", price: 30, discount: Percent(150), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EffectivePrice(tt.price, tt.discount), 1e-9)
		})
	}
}

func TestHasDiscount(t *testing.T) {
	assert.False(t, HasDiscount(nil))
	assert.False(t, HasDiscount(Percent(0)))
	assert.True(t, HasDiscount(Percent(0.5)))
	assert.True(t, HasDiscount(Percent(150)))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), MinorUnits(19.99))
	assert.Equal(t, int64(8000), MinorUnits(80))
	assert.Equal(t, int64(13), MinorUnits(0.125))
	assert.Equal(t, int64(0), MinorUnits(0))
	assert.InDelta(t, 19.99, FromMinorUnits(1999), 1e-9)
}
