package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanedle/cipher-cart/internal/catalog/app"
	"github.com/shanedle/cipher-cart/internal/catalog/domain"
)

func seeded() *ContentStore {
	s := NewContentStore()
	s.Seed(
		[]domain.Category{
			{ID: "c1", Title: "Tech Nostalgia", Slug: "tech-nostalgia"},
			{ID: "c2", Title: "Cryptography Collectibles", Slug: "cryptography-collectibles"},
		},
		[]domain.Product{
			{ID: "p1", Name: "Walkman", Slug: "walkman", Description: "Cassette player", Status: domain.StatusHot, Category: domain.Category{Slug: "tech-nostalgia"}},
			{ID: "p2", Name: "Enigma Replica", Slug: "enigma-replica", Description: "Rotor cipher machine", Status: domain.StatusNew, Category: domain.Category{Slug: "cryptography-collectibles"}},
			{ID: "p3", Name: "Arcade Stick", Description: "Enigma themed", Status: domain.StatusHot, Category: domain.Category{Slug: "tech-nostalgia"}},
			{ID: "p4", Name: "Cipher Wheel", Description: "Brass", Status: domain.StatusSale, Category: domain.Category{Slug: "cryptography-collectibles"}},
		},
	)
	return s
}

func names(ps []domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestQueryProducts_Category(t *testing.T) {
	s := seeded()

	got, err := s.QueryProducts(context.Background(), domain.ProductQuery{CategorySlug: "tech-nostalgia"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arcade Stick", "Walkman"}, names(got))

	got, err = s.QueryProducts(context.Background(), domain.ProductQuery{CategorySlug: "cryptography-collectibles", Status: domain.StatusSale})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cipher Wheel"}, names(got))
	assert.Equal(t, "Cryptography Collectibles", got[0].Category.Title)
}

func TestQueryProducts_SearchRelevance(t *testing.T) {
	s := seeded()

	got, err := s.QueryProducts(context.Background(), domain.ProductQuery{Term: "enigma"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Enigma Replica", "Arcade Stick"}, names(got))

	got, err = s.QueryProducts(context.Background(), domain.ProductQuery{Term: "CRYPTO"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cipher Wheel", "Enigma Replica"}, names(got))
}

func TestQueryProducts_Limit(t *testing.T) {
	s := NewContentStore()
	var products []domain.Product
	for i := 0; i < 25; i++ {
		products = append(products, domain.Product{ID: fmt.Sprint(i), Name: fmt.Sprintf("Lamp %02d", i)})
	}
	s.Seed(nil, products)

	got, err := s.QueryProducts(context.Background(), domain.ProductQuery{Term: "lamp", Limit: app.SearchLimit})
	require.NoError(t, err)
	require.Len(t, got, app.SearchLimit)
	assert.Equal(t, "Lamp 00", got[0].Name)
}

func TestGetProduct(t *testing.T) {
	s := seeded()

	p, err := s.GetProduct(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "Enigma Replica", p.Name)

	_, err = s.GetProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestGetProductBySlug(t *testing.T) {
	s := seeded()

	p, err := s.GetProductBySlug(context.Background(), "enigma-replica")
	require.NoError(t, err)
	assert.Equal(t, "p2", p.ID)
	assert.Equal(t, "Cryptography Collectibles", p.Category.Title)

	_, err = s.GetProductBySlug(context.Background(), "p2")
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestQueryProducts_WholeCatalog(t *testing.T) {
	s := seeded()

	got, err := s.QueryProducts(context.Background(), domain.ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arcade Stick", "Cipher Wheel", "Enigma Replica", "Walkman"}, names(got))

	got, err = s.QueryProducts(context.Background(), domain.ProductQuery{Status: domain.StatusHot})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arcade Stick", "Walkman"}, names(got))
}
