package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shanedle/cipher-cart/internal/order/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("order already recorded")
)

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.OrderResponse, error) {
	if strings.TrimSpace(req.OrderNumber) == "" {
		return domain.OrderResponse{}, fmt.Errorf("%w: order number is required", ErrInvalidInput)
	}
	if len(req.Items) == 0 {
		return domain.OrderResponse{}, fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}

	orderItems := make([]domain.OrderItem, 0, len(req.Items))
	var subTotalAmount int64

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return domain.OrderResponse{}, fmt.Errorf("%w: item %d: quantity must be positive, got %d", ErrInvalidInput, i, item.Quantity)
		}
		if item.UnitAmount < 0 {
			return domain.OrderResponse{}, fmt.Errorf("%w: item %d: unit amount cannot be negative, got %d", ErrInvalidInput, i, item.UnitAmount)
		}

		line := item.UnitAmount * int64(item.Quantity)
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:       item.ProductID,
			Name:            item.Name,
			UnitAmount:      item.UnitAmount,
			Quantity:        item.Quantity,
			LineTotalAmount: line,
		})
		subTotalAmount += line
	}

	if req.DiscountAmount < 0 || req.DiscountAmount > subTotalAmount {
		return domain.OrderResponse{}, fmt.Errorf("%w: discount %d outside [0, %d]", ErrInvalidInput, req.DiscountAmount, subTotalAmount)
	}

	order := domain.Order{
		OrderNumber:    req.OrderNumber,
		UserID:         req.UserID,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		Status:         domain.StatusPaid,
		Currency:       req.Currency,
		SubTotalAmount: subTotalAmount,
		DiscountAmount: req.DiscountAmount,
		TotalAmount:    subTotalAmount - req.DiscountAmount,
		OrderItems:     orderItems,
	}

	created, err := s.repo.CreateOrderTx(ctx, order)
	if err != nil {
		return domain.OrderResponse{}, err
	}

	return domain.OrderResponse{
		ID:          created.ID,
		OrderNumber: created.OrderNumber,
		Status:      created.Status,
		TotalAmount: created.TotalAmount,
		CreatedAt:   created.CreatedAt,
	}, nil
}

// ListOrders returns the user's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}
