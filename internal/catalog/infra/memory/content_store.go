// Package memory is an in-process content store, used for local runs and
// tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shanedle/cipher-cart/internal/catalog/app"
	"github.com/shanedle/cipher-cart/internal/catalog/domain"
)

// Relevance weights per matched field.
const (
	nameWeight        = 3
	categoryWeight    = 2
	descriptionWeight = 1
)

type ContentStore struct {
	mu         sync.RWMutex
	products   []domain.Product
	categories []domain.Category
}

var _ app.ContentStore = (*ContentStore)(nil)

func NewContentStore() *ContentStore {
	return &ContentStore{}
}

// Seed appends categories and products. A product's Category is resolved by
// slug when only the slug is set.
func (s *ContentStore) Seed(categories []domain.Category, products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = append(s.categories, categories...)
	bySlug := make(map[string]domain.Category, len(s.categories))
	for _, c := range s.categories {
		bySlug[c.Slug] = c
	}
	for _, p := range products {
		if c, ok := bySlug[p.Category.Slug]; ok && p.Category.ID == "" {
			p.Category = c
		}
		s.products = append(s.products, p)
	}
}

func (s *ContentStore) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, app.ErrNotFound
}

func (s *ContentStore) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.Product{}, app.ErrNotFound
}

func (s *ContentStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out, nil
}

func (s *ContentStore) QueryProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(q.Term))

	type scored struct {
		p     domain.Product
		score int
	}
	var hits []scored
	for _, p := range s.products {
		if q.CategorySlug != "" && p.Category.Slug != q.CategorySlug {
			continue
		}
		if q.Status != "" && q.Status != domain.StatusAll && p.Status != q.Status {
			continue
		}
		score := 0
		if term != "" {
			score = relevance(p, term)
			if score == 0 {
				continue
			}
		}
		hits = append(hits, scored{p: p, score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return strings.ToLower(hits[i].p.Name) < strings.ToLower(hits[j].p.Name)
	})

	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}
	out := make([]domain.Product, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.p)
	}
	return out, nil
}

func relevance(p domain.Product, term string) int {
	score := 0
	if strings.Contains(strings.ToLower(p.Name), term) {
		score += nameWeight
	}
	if strings.Contains(strings.ToLower(p.Category.Title), term) {
		score += categoryWeight
	}
	if strings.Contains(strings.ToLower(p.Description), term) {
		score += descriptionWeight
	}
	return score
}
