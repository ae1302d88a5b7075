package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shanedle/cipher-cart/internal/cart/app"
	"github.com/shanedle/cipher-cart/internal/cart/domain"
	"github.com/shanedle/cipher-cart/pkg/httpx"
)

type Handler struct {
	sessions *app.Sessions
	products app.ProductReader
}

func NewHandler(sessions *app.Sessions, products app.ProductReader) *Handler {
	return &Handler{sessions: sessions, products: products}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/cart", h.getCart).Methods(http.MethodGet)
	r.HandleFunc("/cart", h.resetCart).Methods(http.MethodDelete)
	r.HandleFunc("/cart/items", h.addItem).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}/increase", h.increase).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}/decrease", h.decrease).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}", h.deleteItem).Methods(http.MethodDelete)
}

func (h *Handler) store(r *http.Request) *app.Store {
	return h.sessions.Get(httpx.CartID(r.Context()))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, toSummary(h.store(r).Snapshot()))
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.ProductID == "" {
		httpx.WriteError(w, status.Error(codes.InvalidArgument, "productId is required"))
		return
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}

	st := h.store(r)
	if err := app.AddToCart(st, product); err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSummary(st.Snapshot()))
}

// increase checks the current stock before adding one more unit.
func (h *Handler) increase(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}

	st := h.store(r)
	if err := app.NewQuantityControl(st, product).Increase(); err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSummary(st.Snapshot()))
}

func (h *Handler) decrease(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	st.DecreaseQuantity(mux.Vars(r)["id"])
	httpx.WriteJSON(w, http.StatusOK, toSummary(st.Snapshot()))
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	st.DeleteCartProduct(mux.Vars(r)["id"])
	httpx.WriteJSON(w, http.StatusOK, toSummary(st.Snapshot()))
}

func (h *Handler) resetCart(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	st.ResetCart()
	httpx.WriteJSON(w, http.StatusOK, toSummary(st.Snapshot()))
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrProductNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	if errors.Is(err, app.ErrOutOfStock) || errors.Is(err, app.ErrStockLimit) {
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Unavailable, "product lookup failed")
}

type product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Price          float64  `json:"price"`
	Discount       *float64 `json:"discount,omitempty"`
	EffectivePrice float64  `json:"effectivePrice"`
	Stock          *int     `json:"stock,omitempty"`
}

type item struct {
	Product   product `json:"product"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

type summary struct {
	Items    []item  `json:"items"`
	Count    int     `json:"count"`
	SubTotal float64 `json:"subTotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

func toSummary(s app.Summary) summary {
	out := summary{
		Items:    make([]item, 0, len(s.Items)),
		SubTotal: s.SubTotal,
		Discount: s.Discount,
		Total:    s.Total,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, toItem(it))
		out.Count += it.Quantity
	}
	return out
}

func toItem(it domain.CartItem) item {
	eff := it.Product.EffectivePrice()
	return item{
		Product: product{
			ID:             it.Product.ID,
			Name:           it.Product.Name,
			Slug:           it.Product.Slug,
			Price:          it.Product.Price,
			Discount:       it.Product.Discount,
			EffectivePrice: eff,
			Stock:          it.Product.Stock,
		},
		Quantity:  it.Quantity,
		LineTotal: eff * float64(it.Quantity),
	}
}
