package app

import (
	"context"

	"github.com/shanedle/cipher-cart/internal/order/domain"
)

type OrderRepo interface {
	CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
