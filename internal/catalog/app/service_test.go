package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shanedle/cipher-cart/internal/catalog/domain"
)

type fakeRepo struct {
	queries  []domain.ProductQuery
	products []domain.Product
	err      error
}

func (f *fakeRepo) QueryProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	f.queries = append(f.queries, q)
	return f.products, f.err
}

func (f *fakeRepo) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return domain.Product{ID: id}, nil
}

func (f *fakeRepo) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	return domain.Product{Slug: slug}, nil
}

func (f *fakeRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return nil, f.err
}

func TestGetProductValidation(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	t.Run("blank id -> invalid", func(t *testing.T) {
		_, err := svc.GetProduct(context.Background(), "   ")
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestCategoryProducts(t *testing.T) {
	t.Run("blank slug -> invalid", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, nil)
		_, err := svc.CategoryProducts(context.Background(), " ", domain.StatusAll)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("all -> no status filter", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, nil)
		if _, err := svc.CategoryProducts(context.Background(), "tech-nostalgia", domain.StatusAll); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got := repo.queries[0]; got.CategorySlug != "tech-nostalgia" || got.Status != "" {
			t.Fatalf("got query %+v", got)
		}
	})

	t.Run("hot -> status filter", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, nil)
		_, _ = svc.CategoryProducts(context.Background(), "tech-nostalgia", domain.StatusHot)
		if got := repo.queries[0].Status; got != domain.StatusHot {
			t.Fatalf("expected hot, got %q", got)
		}
	})

	t.Run("fetch failure -> empty list", func(t *testing.T) {
		svc := NewService(&fakeRepo{err: errors.New("unreachable")}, nil)
		products, err := svc.CategoryProducts(context.Background(), "x", domain.StatusNew)
		if !errors.Is(err, ErrFetchFailed) {
			t.Fatalf("expected ErrFetchFailed, got %v", err)
		}
		if products == nil || len(products) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", products)
		}
	})
}

func TestProducts(t *testing.T) {
	t.Run("whole catalog -> no category filter", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, nil)
		if _, err := svc.Products(context.Background(), domain.StatusAll); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got := repo.queries[0]; got != (domain.ProductQuery{}) {
			t.Fatalf("got query %+v", got)
		}
	})

	t.Run("sale -> status filter only", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, nil)
		_, _ = svc.Products(context.Background(), domain.StatusSale)
		if got := repo.queries[0]; got.Status != domain.StatusSale || got.CategorySlug != "" {
			t.Fatalf("got query %+v", got)
		}
	})

	t.Run("fetch failure -> empty list", func(t *testing.T) {
		svc := NewService(&fakeRepo{err: errors.New("unreachable")}, nil)
		products, err := svc.Products(context.Background(), domain.StatusAll)
		if !errors.Is(err, ErrFetchFailed) || products == nil || len(products) != 0 {
			t.Fatalf("got (%#v, %v)", products, err)
		}
	})
}

func TestGetProductBySlug(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	if _, err := svc.GetProductBySlug(context.Background(), "  "); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	p, err := svc.GetProductBySlug(context.Background(), " walkman ")
	if err != nil || p.Slug != "walkman" {
		t.Fatalf("got (%+v, %v)", p, err)
	}
}

func TestSearch(t *testing.T) {
	t.Run("blank term -> no query", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, nil)
		products, err := svc.Search(context.Background(), "  ")
		if err != nil || len(products) != 0 || len(repo.queries) != 0 {
			t.Fatalf("got (%v, %v, %d queries)", products, err, len(repo.queries))
		}
	})

	t.Run("term is trimmed and capped", func(t *testing.T) {
		repo := &fakeRepo{}
		for i := 0; i < 15; i++ {
			repo.products = append(repo.products, domain.Product{ID: fmt.Sprint(i)})
		}
		svc := NewService(repo, nil)
		products, err := svc.Search(context.Background(), " enigma ")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(products) != SearchLimit {
			t.Fatalf("expected %d products, got %d", SearchLimit, len(products))
		}
		if q := repo.queries[0]; q.Term != "enigma" || q.Limit != SearchLimit {
			t.Fatalf("got query %+v", q)
		}
	})

	t.Run("fetch failure -> empty list", func(t *testing.T) {
		svc := NewService(&fakeRepo{err: errors.New("boom")}, nil)
		products, err := svc.Search(context.Background(), "x")
		if !errors.Is(err, ErrFetchFailed) || len(products) != 0 {
			t.Fatalf("got (%v, %v)", products, err)
		}
	})
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]domain.Status{"": domain.StatusAll, "ALL": domain.StatusAll, "hot": domain.StatusHot, " sale ": domain.StatusSale, "new": domain.StatusNew} {
		got, err := domain.ParseStatus(in)
		if err != nil || got != want {
			t.Fatalf("ParseStatus(%q) = (%q, %v)", in, got, err)
		}
	}
	if _, err := domain.ParseStatus("vintage"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
