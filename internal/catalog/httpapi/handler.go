package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shanedle/cipher-cart/internal/catalog/app"
	"github.com/shanedle/cipher-cart/internal/catalog/domain"
	"github.com/shanedle/cipher-cart/pkg/httpx"
)

const fetchFailedMessage = "Products are temporarily unavailable."

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	r.HandleFunc("/categories/{slug}/products", h.categoryProducts).Methods(http.MethodGet)
	r.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/slug/{slug}", h.getProductBySlug).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/search", h.search).Methods(http.MethodGet)
}

type productList struct {
	Products []Product `json:"products"`
	Error    string    `json:"error,omitempty"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	out := struct {
		Categories []Category `json:"categories"`
		Error      string     `json:"error,omitempty"`
	}{Categories: make([]Category, 0, len(cats))}
	for _, c := range cats {
		out.Categories = append(out.Categories, toCategory(c))
	}
	if err != nil {
		out.Error = fetchFailedMessage
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) categoryProducts(w http.ResponseWriter, r *http.Request) {
	st, err := domain.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		httpx.WriteError(w, status.Error(codes.InvalidArgument, err.Error()))
		return
	}

	products, err := h.svc.CategoryProducts(r.Context(), mux.Vars(r)["slug"], st)
	if errors.Is(err, app.ErrInvalidInput) {
		httpx.WriteError(w, mapErr(err))
		return
	}
	writeProducts(w, products, err)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	st, err := domain.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		httpx.WriteError(w, status.Error(codes.InvalidArgument, err.Error()))
		return
	}

	products, err := h.svc.Products(r.Context(), st)
	writeProducts(w, products, err)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	writeProducts(w, products, err)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProduct(p))
}

func (h *Handler) getProductBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProductBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProduct(p))
}

// writeProducts answers 200 even when the fetch failed: the page shows an
// empty list and a transient notice.
func writeProducts(w http.ResponseWriter, products []domain.Product, err error) {
	out := productList{Products: make([]Product, 0, len(products))}
	for _, p := range products {
		out.Products = append(out.Products, toProduct(p))
	}
	if err != nil {
		out.Error = fetchFailedMessage
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, app.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	if errors.Is(err, app.ErrFetchFailed) {
		return status.Error(codes.Unavailable, fetchFailedMessage)
	}
	return status.Error(codes.Internal, "internal error")
}
