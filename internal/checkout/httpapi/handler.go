package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shanedle/cipher-cart/internal/checkout/app"
	"github.com/shanedle/cipher-cart/internal/checkout/domain"
	"github.com/shanedle/cipher-cart/internal/identity"
	"github.com/shanedle/cipher-cart/pkg/httpx"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r *mux.Router) {
	r.Handle("/checkout", identity.Require(http.HandlerFunc(h.begin))).Methods(http.MethodPost)
	r.HandleFunc("/checkout/confirm", h.confirm).Methods(http.MethodPost)
}

type sessionResponse struct {
	URL         string `json:"url"`
	OrderNumber string `json:"orderNumber"`
}

func (h *Handler) begin(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.CurrentUser(r.Context())

	sess, err := h.svc.Begin(r.Context(), httpx.CartID(r.Context()), domain.Customer{
		ID:    user.ID,
		Name:  user.FullName,
		Email: user.PrimaryEmail,
	})
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{URL: sess.URL, OrderNumber: sess.OrderNumber})
}

type confirmRequest struct {
	OrderNumber string `json:"orderNumber"`
	SessionID   string `json:"sessionId,omitempty"`
}

type confirmResponse struct {
	OrderNumber string `json:"orderNumber"`
	Paid        bool   `json:"paid"`
	Recorded    bool   `json:"recorded"`
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, status.Error(codes.InvalidArgument, "malformed body"))
		return
	}
	if req.OrderNumber == "" {
		req.OrderNumber = r.URL.Query().Get("orderNumber")
	}
	if req.SessionID == "" {
		req.SessionID = r.URL.Query().Get("session_id")
	}

	conf, err := h.svc.Confirm(r.Context(), httpx.CartID(r.Context()), req.OrderNumber, req.SessionID)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, confirmResponse{
		OrderNumber: conf.OrderNumber,
		Paid:        conf.Paid,
		Recorded:    conf.Recorded,
	})
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, "order number is required")
	}
	if errors.Is(err, app.ErrEmptyCart) {
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	if errors.Is(err, app.ErrCheckoutFailed) {
		return status.Error(codes.Unavailable, "checkout could not be started, please try again")
	}
	return status.Error(codes.Internal, "internal error")
}
