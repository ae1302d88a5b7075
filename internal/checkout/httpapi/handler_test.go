package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanedle/cipher-cart/internal/checkout/app"
	"github.com/shanedle/cipher-cart/internal/checkout/domain"
	"github.com/shanedle/cipher-cart/internal/identity"
	"github.com/shanedle/cipher-cart/pkg/httpx"
)

const cartID = "cart-0001"

type memCart struct {
	items map[string][]app.CartItem
}

func (m *memCart) GroupedItems(id string) []app.CartItem { return append([]app.CartItem(nil), m.items[id]...) }
func (m *memCart) Reset(id string)                        { delete(m.items, id) }

type stubSessions struct {
	err error
}

func (s stubSessions) CreateCheckoutSession(ctx context.Context, req domain.SessionRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "https://pay.test/s/" + req.Metadata.OrderNumber, nil
}

// GetCheckoutSession reports "cs_<order number>" as paid.
func (s stubSessions) GetCheckoutSession(ctx context.Context, id string) (domain.SessionState, error) {
	n, ok := strings.CutPrefix(id, "cs_")
	return domain.SessionState{ID: id, OrderNumber: n, Paid: ok}, nil
}

func newRouter(cart *memCart, sessions stubSessions) *mux.Router {
	svc := app.NewService(cart, nil, sessions, nil, app.Options{BaseURL: "https://shop.test"}, nil)
	r := mux.NewRouter()
	r.Use(httpx.CartSession)
	NewHandler(svc).Register(r)
	return r
}

func do(r http.Handler, method, path, body string, signedIn bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(httpx.CartHeader, cartID)
	if signedIn {
		req = req.WithContext(identity.WithUser(req.Context(), identity.User{ID: "u1", FullName: "Ada"}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func filledCart() *memCart {
	return &memCart{items: map[string][]app.CartItem{
		cartID: {{ProductID: "A", Name: "Walkman", Price: 100, Quantity: 1}},
	}}
}

func TestBeginCheckout(t *testing.T) {
	t.Run("anonymous -> 401", func(t *testing.T) {
		rec := do(newRouter(filledCart(), stubSessions{}), http.MethodPost, "/checkout", "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty cart -> 409", func(t *testing.T) {
		rec := do(newRouter(&memCart{}, stubSessions{}), http.MethodPost, "/checkout", "", true)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("provider down -> 503 and cart kept", func(t *testing.T) {
		cart := filledCart()
		rec := do(newRouter(cart, stubSessions{err: errors.New("down")}), http.MethodPost, "/checkout", "", true)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Len(t, cart.items[cartID], 1)
	})

	t.Run("signed in -> session url", func(t *testing.T) {
		rec := do(newRouter(filledCart(), stubSessions{}), http.MethodPost, "/checkout", "", true)
		require.Equal(t, http.StatusOK, rec.Code)

		var body sessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body.OrderNumber)
		assert.Equal(t, "https://pay.test/s/"+body.OrderNumber, body.URL)
	})
}

func TestConfirmCheckout(t *testing.T) {
	t.Run("missing order number -> 400 and cart kept", func(t *testing.T) {
		cart := filledCart()
		rec := do(newRouter(cart, stubSessions{}), http.MethodPost, "/checkout/confirm", `{}`, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, cart.items[cartID], 1)
	})

	t.Run("order number -> cart cleared", func(t *testing.T) {
		cart := filledCart()
		rec := do(newRouter(cart, stubSessions{}), http.MethodPost, "/checkout/confirm", `{"orderNumber":"n-1"}`, false)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, cart.items[cartID])
	})

	t.Run("order number in query -> cart cleared", func(t *testing.T) {
		cart := filledCart()
		rec := do(newRouter(cart, stubSessions{}), http.MethodPost, "/checkout/confirm?orderNumber=n-2", "", false)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, cart.items[cartID])
	})

	t.Run("session id from success url -> paid", func(t *testing.T) {
		cart := filledCart()
		r := newRouter(cart, stubSessions{})

		rec := do(r, http.MethodPost, "/checkout", "", true)
		require.Equal(t, http.StatusOK, rec.Code)
		var sess sessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))

		rec = do(r, http.MethodPost, "/checkout/confirm?orderNumber="+sess.OrderNumber+"&session_id=cs_"+sess.OrderNumber, "", false)
		require.Equal(t, http.StatusOK, rec.Code)

		var body confirmResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Paid)
		assert.Empty(t, cart.items[cartID])
	})

	t.Run("unpaid session -> not paid, cart cleared", func(t *testing.T) {
		cart := filledCart()
		r := newRouter(cart, stubSessions{})

		rec := do(r, http.MethodPost, "/checkout", "", true)
		require.Equal(t, http.StatusOK, rec.Code)
		var sess sessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))

		rec = do(r, http.MethodPost, "/checkout/confirm", `{"orderNumber":"`+sess.OrderNumber+`","sessionId":"abandoned"}`, false)
		require.Equal(t, http.StatusOK, rec.Code)

		var body confirmResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Paid)
		assert.False(t, body.Recorded)
		assert.Empty(t, cart.items[cartID])
	})
}
