package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSession(t *testing.T) {
	var seen string
	h := CartSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartID(r.Context())
	}))

	t.Run("issues cookie when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CartCookie, cookies[0].Name)
		assert.Equal(t, cookies[0].Value, seen)
		assert.Equal(t, seen, rec.Header().Get(CartHeader))
	})

	t.Run("reuses cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CartCookie, Value: "cookie-cart-1"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "cookie-cart-1", seen)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("header overrides cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CartCookie, Value: "cookie-cart-1"})
		req.Header.Set(CartHeader, "header-cart-1")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "header-cart-1", seen)
	})

	t.Run("malformed id is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(CartHeader, "../../etc")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.NotEqual(t, "../../etc", seen)
		assert.Len(t, seen, 36)
	})
}
