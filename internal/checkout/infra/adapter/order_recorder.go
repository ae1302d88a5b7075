package adapter

import (
	"context"
	"fmt"

	checkoutapp "github.com/shanedle/cipher-cart/internal/checkout/app"
	checkoutdomain "github.com/shanedle/cipher-cart/internal/checkout/domain"
	orderapp "github.com/shanedle/cipher-cart/internal/order/app"
	orderdomain "github.com/shanedle/cipher-cart/internal/order/domain"
)

type OrderServiceRecorder struct {
	svc *orderapp.Service
}

var _ checkoutapp.OrderRecorder = (*OrderServiceRecorder)(nil)

func NewOrderServiceRecorder(svc *orderapp.Service) *OrderServiceRecorder {
	return &OrderServiceRecorder{svc: svc}
}

// RecordOrder stores list prices per line and the granted discount on the
// order, so the order total matches what was charged.
func (r *OrderServiceRecorder) RecordOrder(ctx context.Context, o checkoutdomain.PlacedOrder) error {
	items := make([]orderdomain.OrderItemRequest, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, orderdomain.OrderItemRequest{
			ProductID:  l.ProductID,
			Name:       l.Name,
			UnitAmount: l.ListAmount,
			Quantity:   int32(l.Quantity),
		})
	}

	_, err := r.svc.CreateOrder(ctx, orderdomain.CreateOrderRequest{
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		Currency:       o.Currency,
		DiscountAmount: o.DiscountAmount,
		Items:          items,
	})
	if err != nil {
		return fmt.Errorf("record order %s: %w", o.OrderNumber, err)
	}
	return nil
}
