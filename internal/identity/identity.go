// Package identity verifies session tokens minted by the identity provider
// and exposes the signed-in user to handlers.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shanedle/cipher-cart/pkg/httpx"
)

const SessionCookie = "__session"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrNoToken      = errors.New("no session token")
)

type User struct {
	ID           string
	FullName     string
	PrimaryEmail string
}

// Claims is the payload the identity provider signs.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier checks HS256 tokens against secret. A non-empty issuer must
// match the iss claim.
func NewVerifier(secret []byte, issuer string) *Verifier {
	return &Verifier{secret: secret, issuer: issuer, now: time.Now}
}

func (v *Verifier) Verify(token string) (User, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	tok, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return User{}, errors.Join(ErrInvalidToken, err)
	}

	c, ok := tok.Claims.(*Claims)
	if !ok {
		return User{}, fmt.Errorf("%w: unexpected claims type: %T", ErrInvalidToken, tok.Claims)
	}
	if c.Subject == "" {
		return User{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return User{ID: c.Subject, FullName: c.Name, PrimaryEmail: c.Email}, nil
}

// Sign issues a token for u. Used by tests and local tooling; production
// tokens come from the identity provider.
func Sign(secret []byte, issuer string, u User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  u.FullName,
		Email: u.PrimaryEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

type userKey struct{}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// CurrentUser returns the signed-in user, if any.
func CurrentUser(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey{}).(User)
	return u, ok
}

func tokenFrom(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok && t != "" {
			return t, nil
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrNoToken
}

// Middleware attaches the verified user to the request context. Requests
// with a missing or bad token continue anonymously.
func Middleware(v *Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := tokenFrom(r)
			if err == nil {
				u, verr := v.Verify(token)
				if verr == nil {
					r = r.WithContext(WithUser(r.Context(), u))
				} else {
					log.Debug("session token rejected", slog.Any("err", verr))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Require rejects anonymous requests with 401.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			httpx.WriteError(w, status.Error(codes.Unauthenticated, "sign in required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
