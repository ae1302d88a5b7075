package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	cartapp "github.com/shanedle/cipher-cart/internal/cart/app"
	carthttp "github.com/shanedle/cipher-cart/internal/cart/httpapi"
	catalogapp "github.com/shanedle/cipher-cart/internal/catalog/app"
	cataloghttp "github.com/shanedle/cipher-cart/internal/catalog/httpapi"
	checkoutapp "github.com/shanedle/cipher-cart/internal/checkout/app"
	checkouthttp "github.com/shanedle/cipher-cart/internal/checkout/httpapi"
	"github.com/shanedle/cipher-cart/internal/identity"
	orderapp "github.com/shanedle/cipher-cart/internal/order/app"
	orderhttp "github.com/shanedle/cipher-cart/internal/order/httpapi"
	"github.com/shanedle/cipher-cart/pkg/httpx"
)

// readyCheck reports whether a backing store can serve traffic.
type readyCheck func(ctx context.Context) error

type services struct {
	carts    *cartapp.Sessions
	products cartapp.ProductReader
	catalog  *catalogapp.Service
	checkout *checkoutapp.Service
	orders   *orderapp.Service
	verifier *identity.Verifier
	ready    map[string]readyCheck
}

func newRouter(svc services, log *slog.Logger) http.Handler {
	root := mux.NewRouter()
	root.Use(otelmux.Middleware("storefront"))
	root.Use(httpx.AccessLog(log))

	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	root.HandleFunc("/readyz", readyHandler(svc.ready, log))

	api := root.PathPrefix("/api").Subrouter()
	api.Use(identity.Middleware(svc.verifier, log))
	api.Use(httpx.CartSession)

	carthttp.NewHandler(svc.carts, svc.products).Register(api)
	cataloghttp.NewHandler(svc.catalog).Register(api)
	checkouthttp.NewHandler(svc.checkout).Register(api)
	orderhttp.NewHandler(svc.orders).Register(api)

	return root
}

func readyHandler(checks map[string]readyCheck, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		failed := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.Warn("readiness check failed", slog.String("check", name), slog.Any("err", err))
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
