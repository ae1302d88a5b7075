package httpapi

import "github.com/shanedle/cipher-cart/internal/catalog/domain"

type Category struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Intro          string   `json:"intro,omitempty"`
	Description    string   `json:"description,omitempty"`
	Price          float64  `json:"price"`
	Discount       *float64 `json:"discount,omitempty"`
	EffectivePrice float64  `json:"effectivePrice"`
	Stock          *int     `json:"stock,omitempty"`
	InStock        bool     `json:"inStock"`
	Status         string   `json:"status,omitempty"`
	Category       Category `json:"category"`
}

func toCategory(c domain.Category) Category {
	return Category{ID: c.ID, Title: c.Title, Slug: c.Slug, Description: c.Description}
}

func toProduct(p domain.Product) Product {
	return Product{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Intro:          p.Intro,
		Description:    p.Description,
		Price:          p.Price,
		Discount:       p.Discount,
		EffectivePrice: p.EffectivePrice(),
		Stock:          p.Stock,
		InStock:        p.InStock(),
		Status:         string(p.Status),
		Category:       toCategory(p.Category),
	}
}
