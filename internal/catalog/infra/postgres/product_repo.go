package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shanedle/cipher-cart/internal/catalog/app"
	"github.com/shanedle/cipher-cart/internal/catalog/domain"
)

const productColumns = `p.id, p.name, p.slug, p.intro, p.description, p.price, p.discount, p.stock, p.status,
	c.id, c.title, c.slug, c.description`

type ProductRepo struct {
	db *sql.DB
}

var _ app.ContentStore = (*ProductRepo)(nil)

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrInvalidInput
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+`
	FROM products p JOIN categories c ON c.id = p.category_id
	WHERE p.id = $1`, prodID)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+`
	FROM products p JOIN categories c ON c.id = p.category_id
	WHERE p.slug = $1`, slug)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, slug, description FROM categories ORDER BY lower(title)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ProductRepo) QueryProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	query, args := buildProductQuery(q)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// buildProductQuery translates a ProductQuery into SQL. Term matches are
// scored name=3, category=2, description=1.
func buildProductQuery(q domain.ProductQuery) (string, []any) {
	var (
		where []string
		args  []any
		score = "0"
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.CategorySlug != "" {
		where = append(where, "c.slug = "+arg(q.CategorySlug))
	}
	if q.Status != "" && q.Status != domain.StatusAll {
		where = append(where, "p.status = "+arg(string(q.Status)))
	}
	if term := strings.TrimSpace(q.Term); term != "" {
		pat := arg("%" + escapeLike(term) + "%")
		where = append(where, fmt.Sprintf("(p.name ILIKE %[1]s OR c.title ILIKE %[1]s OR p.description ILIKE %[1]s)", pat))
		score = fmt.Sprintf("(CASE WHEN p.name ILIKE %[1]s THEN 3 ELSE 0 END + CASE WHEN c.title ILIKE %[1]s THEN 2 ELSE 0 END + CASE WHEN p.description ILIKE %[1]s THEN 1 ELSE 0 END)", pat)
	}

	var b strings.Builder
	b.WriteString("SELECT " + productColumns + "\n\tFROM products p JOIN categories c ON c.id = p.category_id")
	if len(where) > 0 {
		b.WriteString("\n\tWHERE " + strings.Join(where, " AND "))
	}
	b.WriteString("\n\tORDER BY " + score + " DESC, lower(p.name) ASC")
	if q.Limit > 0 {
		b.WriteString("\n\tLIMIT " + arg(q.Limit))
	}
	return b.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (domain.Product, error) {
	var (
		p        domain.Product
		status   string
		discount sql.NullFloat64
		stock    sql.NullInt64
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Intro, &p.Description, &p.Price, &discount, &stock, &status,
		&p.Category.ID, &p.Category.Title, &p.Category.Slug, &p.Category.Description,
	)
	if err != nil {
		return domain.Product{}, err
	}

	p.Status = domain.Status(status)
	if discount.Valid {
		d := discount.Float64
		p.Discount = &d
	}
	if stock.Valid {
		n := int(stock.Int64)
		p.Stock = &n
	}
	return p, nil
}
