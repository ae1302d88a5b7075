package domain

import "time"

const StatusPaid = "PAID"

type Order struct {
	ID             string
	OrderNumber    string
	UserID         string
	CustomerName   string
	CustomerEmail  string
	Status         string
	Currency       string
	SubTotalAmount int64
	DiscountAmount int64
	TotalAmount    int64
	OrderItems     []OrderItem
	CreatedAt      time.Time
}

type OrderItem struct {
	ID              string
	OrderID         string
	ProductID       string
	Name            string
	UnitAmount      int64
	Quantity        int32
	LineTotalAmount int64
}

type CreateOrderRequest struct {
	OrderNumber    string
	UserID         string
	CustomerName   string
	CustomerEmail  string
	Currency       string
	DiscountAmount int64
	Items          []OrderItemRequest
}

type OrderItemRequest struct {
	ProductID  string
	Name       string
	UnitAmount int64
	Quantity   int32
}

type OrderResponse struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}
