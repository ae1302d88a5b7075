package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	"github.com/shanedle/cipher-cart/internal/order/app"
	"github.com/shanedle/cipher-cart/internal/order/domain"
)

type OrderRepo struct {
	db *sql.DB
}

var _ app.OrderRepo = (*OrderRepo)(nil)

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(tx *sql.Tx) error) error {
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

const insertOrder = `INSERT INTO orders
	(order_number, user_id, customer_name, customer_email, status, currency,
	 subtotal_amount, discount_amount, total_amount)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at`

const insertOrderItem = `INSERT INTO order_items
	(order_id, product_id, name, unit_amount, quantity, line_total_amount)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	created := order
	created.OrderItems = make([]domain.OrderItem, 0, len(order.OrderItems))

	err := r.execTX(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, insertOrder,
			order.OrderNumber, order.UserID, order.CustomerName, order.CustomerEmail,
			order.Status, order.Currency,
			order.SubTotalAmount, order.DiscountAmount, order.TotalAmount,
		).Scan(&created.ID, &created.CreatedAt)
		if err != nil {
			if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UniqueViolation {
				return app.ErrDuplicate
			}
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i, item := range order.OrderItems {
			expected := item.UnitAmount * int64(item.Quantity)
			if item.LineTotalAmount != expected {
				return fmt.Errorf("item %d: line total mismatch", i)
			}

			row := item
			row.OrderID = created.ID
			if err := tx.QueryRowContext(ctx, insertOrderItem,
				created.ID, item.ProductID, item.Name, item.UnitAmount, item.Quantity, item.LineTotalAmount,
			).Scan(&row.ID); err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i, err)
			}
			created.OrderItems = append(created.OrderItems, row)
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, order_number, user_id, customer_name, customer_email,
	status, currency, subtotal_amount, discount_amount, total_amount, created_at
	FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	index := map[string]int{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.CustomerName, &o.CustomerEmail,
			&o.Status, &o.Currency, &o.SubTotalAmount, &o.DiscountAmount, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, err
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.db.QueryContext(ctx, `SELECT i.id, i.order_id, i.product_id, i.name, i.unit_amount, i.quantity, i.line_total_amount
	FROM order_items i JOIN orders o ON o.id = i.order_id
	WHERE o.user_id = $1 ORDER BY i.name`, userID)
	if err != nil {
		return nil, err
	}
	defer items.Close()

	for items.Next() {
		var it domain.OrderItem
		if err := items.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.UnitAmount, &it.Quantity, &it.LineTotalAmount); err != nil {
			return nil, err
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].OrderItems = append(orders[i].OrderItems, it)
		}
	}
	return orders, items.Err()
}
