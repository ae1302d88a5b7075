package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shanedle/cipher-cart/internal/order/app"
	"github.com/shanedle/cipher-cart/internal/order/domain"
)

type OrderRepo struct {
	mu     sync.RWMutex
	orders []domain.Order
	now    func() time.Time
}

var _ app.OrderRepo = (*OrderRepo)(nil)

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{now: time.Now}
}

func (r *OrderRepo) CreateOrderTx(_ context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.OrderNumber == order.OrderNumber {
			return domain.Order{}, app.ErrDuplicate
		}
	}

	order.ID = uuid.NewString()
	order.CreatedAt = r.now()
	items := make([]domain.OrderItem, len(order.OrderItems))
	for i, it := range order.OrderItems {
		it.ID = uuid.NewString()
		it.OrderID = order.ID
		items[i] = it
	}
	order.OrderItems = items

	r.orders = append(r.orders, order)
	return order, nil
}

func (r *OrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			o.OrderItems = append([]domain.OrderItem(nil), o.OrderItems...)
			out = append(out, o)
		}
	}
	return out, nil
}
