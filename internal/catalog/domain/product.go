package domain

import (
	"fmt"
	"strings"

	"github.com/shanedle/cipher-cart/pkg/pricing"
)

type Status string

const (
	StatusAll  Status = "all"
	StatusHot  Status = "hot"
	StatusNew  Status = "new"
	StatusSale Status = "sale"
)

// ParseStatus accepts the category page filters. Empty means all.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusHot:
		return StatusHot, nil
	case StatusNew:
		return StatusNew, nil
	case StatusSale:
		return StatusSale, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

type Category struct {
	ID          string
	Title       string
	Slug        string
	Description string
}

type Product struct {
	ID          string
	Name        string
	Slug        string
	Intro       string
	Description string
	Price       float64
	Discount    *float64
	Stock       *int
	Status      Status
	Category    Category
}

func (p Product) EffectivePrice() float64 {
	return pricing.EffectivePrice(p.Price, p.Discount)
}

func (p Product) InStock() bool {
	return p.Stock == nil || *p.Stock > 0
}

// ProductQuery is the filter expression handed to the content store. Zero
// fields do not filter.
type ProductQuery struct {
	CategorySlug string
	Status       Status
	Term         string
	Limit        int
}
