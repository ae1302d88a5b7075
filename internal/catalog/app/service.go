package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shanedle/cipher-cart/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrFetchFailed  = errors.New("content store fetch failed")
)

const SearchLimit = 10

type Service struct {
	store ContentStore
	log   *slog.Logger
}

func NewService(store ContentStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store: store,
		log:   log,
	}
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.store.GetProduct(ctx, id)
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.store.GetProductBySlug(ctx, slug)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		s.log.Error("list categories failed", slog.Any("err", err))
		return []domain.Category{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return cats, nil
}

// CategoryProducts lists a category's products by name. A failed fetch
// yields an empty list together with ErrFetchFailed.
func (s *Service) CategoryProducts(ctx context.Context, slug string, status domain.Status) ([]domain.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return []domain.Product{}, ErrInvalidInput
	}
	return s.list(ctx, domain.ProductQuery{CategorySlug: slug}, status)
}

// Products lists the whole catalog by name, optionally narrowed to one
// status. Failures behave as in CategoryProducts.
func (s *Service) Products(ctx context.Context, status domain.Status) ([]domain.Product, error) {
	return s.list(ctx, domain.ProductQuery{}, status)
}

func (s *Service) list(ctx context.Context, q domain.ProductQuery, status domain.Status) ([]domain.Product, error) {
	if status != "" && status != domain.StatusAll {
		q.Status = status
	}

	products, err := s.store.QueryProducts(ctx, q)
	if err != nil {
		s.log.Error("products fetch failed",
			slog.Any("err", err),
			slog.String("slug", q.CategorySlug),
			slog.String("status", string(q.Status)),
		)
		return []domain.Product{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return products, nil
}

// Search matches term against name, description and category title. A blank
// term returns nothing without querying.
func (s *Service) Search(ctx context.Context, term string) ([]domain.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.Product{}, nil
	}

	products, err := s.store.QueryProducts(ctx, domain.ProductQuery{Term: term, Limit: SearchLimit})
	if err != nil {
		s.log.Error("search fetch failed", slog.Any("err", err), slog.String("term", term))
		return []domain.Product{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if len(products) > SearchLimit {
		products = products[:SearchLimit]
	}
	return products, nil
}
