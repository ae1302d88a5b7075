package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanedle/cipher-cart/internal/catalog/app"
	"github.com/shanedle/cipher-cart/internal/catalog/domain"
	"github.com/shanedle/cipher-cart/internal/catalog/infra/memory"
	"github.com/shanedle/cipher-cart/pkg/pricing"
)

type brokenStore struct{}

func (brokenStore) QueryProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	return nil, errors.New("content store down")
}

func (brokenStore) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return domain.Product{}, errors.New("content store down")
}

func (brokenStore) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	return domain.Product{}, errors.New("content store down")
}

func (brokenStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return nil, errors.New("content store down")
}

func router(store app.ContentStore) *mux.Router {
	r := mux.NewRouter()
	NewHandler(app.NewService(store, nil)).Register(r)
	return r
}

func seededRouter() *mux.Router {
	store := memory.NewContentStore()
	zero := 0
	store.Seed(
		[]domain.Category{
			{ID: "c1", Title: "Tech Nostalgia", Slug: "tech-nostalgia"},
			{ID: "c2", Title: "Cryptography Collectibles", Slug: "cryptography-collectibles"},
		},
		[]domain.Product{
			{ID: "p3", Name: "Enigma Rotor", Slug: "enigma-rotor", Price: 950, Status: domain.StatusNew, Category: domain.Category{Slug: "cryptography-collectibles"}},
			{ID: "p1", Name: "Walkman", Slug: "walkman", Price: 100, Discount: pricing.Percent(25), Status: domain.StatusHot, Category: domain.Category{Slug: "tech-nostalgia"}},
			{ID: "p2", Name: "Game Boy", Price: 60, Stock: &zero, Status: domain.StatusSale, Category: domain.Category{Slug: "tech-nostalgia"}},
		},
	)
	return router(store)
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) productList {
	t.Helper()
	var out productList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCategoryProducts(t *testing.T) {
	r := seededRouter()

	t.Run("all -> sorted by name", func(t *testing.T) {
		rec := get(r, "/categories/tech-nostalgia/products")
		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeList(t, rec)
		require.Len(t, out.Products, 2)
		assert.Equal(t, "Game Boy", out.Products[0].Name)
		assert.False(t, out.Products[0].InStock)
		assert.InDelta(t, 75.0, out.Products[1].EffectivePrice, 1e-9)
	})

	t.Run("status filter -> matching only", func(t *testing.T) {
		out := decodeList(t, get(r, "/categories/tech-nostalgia/products?status=hot"))
		require.Len(t, out.Products, 1)
		assert.Equal(t, "Walkman", out.Products[0].Name)
	})

	t.Run("unknown status -> 400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(r, "/categories/tech-nostalgia/products?status=bogus").Code)
	})

	t.Run("store down -> empty list with notice", func(t *testing.T) {
		rec := get(router(brokenStore{}), "/categories/tech-nostalgia/products")
		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeList(t, rec)
		assert.NotNil(t, out.Products)
		assert.Empty(t, out.Products)
		assert.Equal(t, fetchFailedMessage, out.Error)
	})
}

func TestSearchAndProduct(t *testing.T) {
	r := seededRouter()

	t.Run("blank query -> empty", func(t *testing.T) {
		out := decodeList(t, get(r, "/search?q=+"))
		assert.Empty(t, out.Products)
		assert.Empty(t, out.Error)
	})

	t.Run("term -> matches", func(t *testing.T) {
		out := decodeList(t, get(r, "/search?q=walk"))
		require.Len(t, out.Products, 1)
		assert.Equal(t, "p1", out.Products[0].ID)
	})

	t.Run("product by id", func(t *testing.T) {
		rec := get(r, "/products/p1")
		require.Equal(t, http.StatusOK, rec.Code)
		var p Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, "Walkman", p.Name)
		assert.Equal(t, "tech-nostalgia", p.Category.Slug)
	})

	t.Run("missing product -> 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(r, "/products/nope").Code)
	})

	t.Run("categories", func(t *testing.T) {
		rec := get(r, "/categories")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "tech-nostalgia")
	})
}

func TestProductsListing(t *testing.T) {
	r := seededRouter()

	t.Run("whole catalog -> every category by name", func(t *testing.T) {
		out := decodeList(t, get(r, "/products"))
		require.Len(t, out.Products, 3)
		assert.Equal(t, "Enigma Rotor", out.Products[0].Name)
		assert.Equal(t, "Game Boy", out.Products[1].Name)
		assert.Equal(t, "Walkman", out.Products[2].Name)
	})

	t.Run("status -> across categories", func(t *testing.T) {
		out := decodeList(t, get(r, "/products?status=new"))
		require.Len(t, out.Products, 1)
		assert.Equal(t, "cryptography-collectibles", out.Products[0].Category.Slug)
	})

	t.Run("unknown status -> 400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(r, "/products?status=bogus").Code)
	})

	t.Run("store down -> empty list with notice", func(t *testing.T) {
		out := decodeList(t, get(router(brokenStore{}), "/products"))
		assert.Empty(t, out.Products)
		assert.Equal(t, fetchFailedMessage, out.Error)
	})
}

func TestProductBySlug(t *testing.T) {
	r := seededRouter()

	rec := get(r, "/products/slug/enigma-rotor")
	require.Equal(t, http.StatusOK, rec.Code)
	var p Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "p3", p.ID)
	assert.Equal(t, "Cryptography Collectibles", p.Category.Title)

	assert.Equal(t, http.StatusNotFound, get(r, "/products/slug/nope").Code)
}
