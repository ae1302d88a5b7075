package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shanedle/cipher-cart/internal/identity"
	"github.com/shanedle/cipher-cart/internal/order/app"
	"github.com/shanedle/cipher-cart/internal/order/domain"
	"github.com/shanedle/cipher-cart/pkg/httpx"
	"github.com/shanedle/cipher-cart/pkg/pricing"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r *mux.Router) {
	r.Handle("/orders", identity.Require(http.HandlerFunc(h.listOrders))).Methods(http.MethodGet)
}

type orderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int32   `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

type order struct {
	ID           string      `json:"id"`
	OrderNumber  string      `json:"orderNumber"`
	Status       string      `json:"status"`
	Currency     string      `json:"currency"`
	CustomerName string      `json:"customerName"`
	SubTotal     float64     `json:"subTotal"`
	Discount     float64     `json:"discount"`
	Total        float64     `json:"total"`
	Items        []orderItem `json:"items"`
	CreatedAt    time.Time   `json:"createdAt"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.CurrentUser(r.Context())

	orders, err := h.svc.ListOrders(r.Context(), user.ID)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}

	out := make([]order, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrder(o))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"orders": out})
}

func toOrder(o domain.Order) order {
	items := make([]orderItem, 0, len(o.OrderItems))
	for _, it := range o.OrderItems {
		items = append(items, orderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: pricing.FromMinorUnits(it.UnitAmount),
			Quantity:  it.Quantity,
			LineTotal: pricing.FromMinorUnits(it.LineTotalAmount),
		})
	}
	return order{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		Status:       o.Status,
		Currency:     o.Currency,
		CustomerName: o.CustomerName,
		SubTotal:     pricing.FromMinorUnits(o.SubTotalAmount),
		Discount:     pricing.FromMinorUnits(o.DiscountAmount),
		Total:        pricing.FromMinorUnits(o.TotalAmount),
		Items:        items,
		CreatedAt:    o.CreatedAt,
	}
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, app.ErrDuplicate) {
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
