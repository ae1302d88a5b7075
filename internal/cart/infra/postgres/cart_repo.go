package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shanedle/cipher-cart/internal/cart/app"
	"github.com/shanedle/cipher-cart/internal/cart/domain"
)

// CartRepo keeps one row per cart and its lines in cart_items, replaced as
// a whole on every save.
type CartRepo struct {
	db      *sql.DB
	ctx     context.Context
	timeout time.Duration
}

var _ app.Backend = (*CartRepo)(nil)

func NewCartRepo(ctx context.Context, db *sql.DB, timeout time.Duration) *CartRepo {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &CartRepo{db: db, ctx: ctx, timeout: timeout}
}

func (r *CartRepo) For(cartID string) app.Persistence {
	return cartRow{repo: r, id: cartID}
}

func (r *CartRepo) execTX(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func (r *CartRepo) Get(ctx context.Context, cartID string) (domain.Cart, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT product_id, name, slug, price, stock, discount, quantity
	FROM cart_items WHERE cart_id = $1 ORDER BY position`, cartID)
	if err != nil {
		return domain.Cart{}, err
	}
	defer rows.Close()

	var cart domain.Cart
	for rows.Next() {
		var (
			it       domain.CartItem
			stock    sql.NullInt64
			discount sql.NullFloat64
		)
		if err := rows.Scan(&it.Product.ID, &it.Product.Name, &it.Product.Slug, &it.Product.Price,
			&stock, &discount, &it.Quantity); err != nil {
			return domain.Cart{}, err
		}
		if stock.Valid {
			n := int(stock.Int64)
			it.Product.Stock = &n
		}
		if discount.Valid {
			d := discount.Float64
			it.Product.Discount = &d
		}
		cart.Items = append(cart.Items, it)
	}
	return cart, rows.Err()
}

func (r *CartRepo) Replace(ctx context.Context, cartID string, cart domain.Cart) error {
	return r.execTX(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO carts (id) VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET updated_at = now()`, cartID); err != nil {
			return fmt.Errorf("upsert cart: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		for i, it := range cart.Items {
			var stock, discount any
			if it.Product.Stock != nil {
				stock = *it.Product.Stock
			}
			if it.Product.Discount != nil {
				discount = *it.Product.Discount
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO cart_items
			(cart_id, position, product_id, name, slug, price, stock, discount, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				cartID, i, it.Product.ID, it.Product.Name, it.Product.Slug, it.Product.Price,
				stock, discount, it.Quantity); err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i, err)
			}
		}
		return nil
	})
}

type cartRow struct {
	repo *CartRepo
	id   string
}

func (c cartRow) Load() (domain.Cart, error) {
	ctx, cancel := context.WithTimeout(c.repo.ctx, c.repo.timeout)
	defer cancel()
	return c.repo.Get(ctx, c.id)
}

func (c cartRow) Save(cart domain.Cart) error {
	ctx, cancel := context.WithTimeout(c.repo.ctx, c.repo.timeout)
	defer cancel()
	return c.repo.Replace(ctx, c.id, cart.Normalize())
}
