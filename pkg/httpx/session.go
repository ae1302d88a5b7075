package httpx

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	CartCookie = "cart_id"
	CartHeader = "X-Cart-ID"

	cartCookieMaxAge = 30 * 24 * time.Hour
)

var validCartID = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

type cartIDKey struct{}

// CartSession makes sure every request carries a cart id: the X-Cart-ID
// header wins, then the cart_id cookie, otherwise a new id is issued in a
// cookie.
func CartSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CartHeader)
		if !validCartID.MatchString(id) {
			id = ""
			if c, err := r.Cookie(CartCookie); err == nil && validCartID.MatchString(c.Value) {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CartCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cartCookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(CartHeader, id)
		next.ServeHTTP(w, r.WithContext(WithCartID(r.Context(), id)))
	})
}

func WithCartID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cartIDKey{}, id)
}

func CartID(ctx context.Context) string {
	id, _ := ctx.Value(cartIDKey{}).(string)
	return id
}
