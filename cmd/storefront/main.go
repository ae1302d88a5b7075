package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/youta-t/flarc"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cartapp "github.com/shanedle/cipher-cart/internal/cart/app"
	cartadapter "github.com/shanedle/cipher-cart/internal/cart/infra/adapter"
	cartmemory "github.com/shanedle/cipher-cart/internal/cart/infra/memory"
	cartpg "github.com/shanedle/cipher-cart/internal/cart/infra/postgres"
	cartredis "github.com/shanedle/cipher-cart/internal/cart/infra/redis"

	catalogapp "github.com/shanedle/cipher-cart/internal/catalog/app"
	catalogmemory "github.com/shanedle/cipher-cart/internal/catalog/infra/memory"
	catalogpg "github.com/shanedle/cipher-cart/internal/catalog/infra/postgres"

	checkoutapp "github.com/shanedle/cipher-cart/internal/checkout/app"
	checkoutadapter "github.com/shanedle/cipher-cart/internal/checkout/infra/adapter"
	"github.com/shanedle/cipher-cart/internal/checkout/infra/provider"

	orderapp "github.com/shanedle/cipher-cart/internal/order/app"
	ordermemory "github.com/shanedle/cipher-cart/internal/order/infra/memory"
	orderpg "github.com/shanedle/cipher-cart/internal/order/infra/postgres"

	"github.com/shanedle/cipher-cart/internal/identity"
	"github.com/shanedle/cipher-cart/pkg/config"
	"github.com/shanedle/cipher-cart/pkg/logger"
	"github.com/shanedle/cipher-cart/pkg/postgres"
	"github.com/shanedle/cipher-cart/pkg/shutdown"
	"github.com/shanedle/cipher-cart/pkg/telemetry"
)

const (
	serviceName = "storefront"
	version     = "v0.1.0"
	stopTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Service: serviceName,
		Version: version,
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cmd, err := newCommand(cfg, log)
	if err != nil {
		log.Error("command setup failed", slog.Any("err", err))
		os.Exit(1)
	}
	os.Exit(flarc.Run(ctx, cmd, flarc.WithHelp(true)))
}

func newCommand(cfg config.Config, log *slog.Logger) (flarc.Command, error) {
	serveCmd, err := flarc.NewCommand(
		"Run the storefront HTTP API and gRPC health server.",
		struct{}{},
		flarc.Args{},
		func(ctx context.Context, _ flarc.Commandline[struct{}], _ []any) error {
			return serve(ctx, cfg, log)
		},
	)
	if err != nil {
		return nil, err
	}

	tokenCmd, err := newTokenCommand(cfg)
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Cipher Cart storefront",
		struct{}{},
		flarc.WithSubcommand("serve", serveCmd),
		flarc.WithSubcommand("token", tokenCmd),
	)
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	tp, err := telemetry.InitTracerProvider(ctx, telemetry.Options{
		Service:  serviceName,
		Version:  version,
		Env:      cfg.AppEnv,
		Endpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("tracing init: %w", err)
	}
	defer func() {
		_ = shutdown.Graceful(log, "tracing", stopTimeout, tp.Shutdown, nil)
	}()

	ready := map[string]readyCheck{}

	var db *sql.DB
	if cfg.Catalog.Backend == config.BackendPostgres || cfg.Cart.Backend == config.BackendPostgres {
		db, err = openDB(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer db.Close()
		ready["postgres"] = db.PingContext
	}

	// Catalog and orders
	var (
		contentStore catalogapp.ContentStore
		orderRepo    orderapp.OrderRepo
	)
	if cfg.Catalog.Backend == config.BackendPostgres {
		contentStore = catalogpg.NewProductRepo(db)
		orderRepo = orderpg.NewOrderRepo(db)
	} else {
		mem := catalogmemory.NewContentStore()
		seedCatalog(mem)
		contentStore = mem
		orderRepo = ordermemory.NewOrderRepo()
	}
	catalogSvc := catalogapp.NewService(contentStore, log.With(slog.String("component", "catalog")))
	orderSvc := orderapp.NewService(orderRepo)

	// Cart
	var backend cartapp.Backend
	switch cfg.Cart.Backend {
	case config.BackendRedis:
		client := cartredis.NewClient(cfg.Cart.RedisAddr)
		defer client.Close()
		store := cartredis.NewCartStore(ctx, client, cartredis.Options{TTL: cfg.Cart.TTL})
		if err := store.WaitReady(ctx, 6, log); err != nil {
			return fmt.Errorf("redis %s not reachable: %w", cfg.Cart.RedisAddr, err)
		}
		ready["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		backend = store
	case config.BackendPostgres:
		backend = cartpg.NewCartRepo(ctx, db, 0)
	default:
		backend = cartmemory.NewCartStore()
	}
	carts := cartapp.NewSessions(backend, cartapp.CacheOptions{
		Size: cfg.Cart.CacheSize,
		TTL:  cfg.Cart.CacheIdleTTL(),
	}, log.With(slog.String("component", "cart")))

	// Checkout (adapters)
	checkoutSvc := checkoutapp.NewService(
		checkoutadapter.NewCartSessionReader(carts),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		provider.NewClient(cfg.Checkout.Endpoint, cfg.Checkout.APIKey, cfg.Checkout.Timeout),
		checkoutadapter.NewOrderServiceRecorder(orderSvc),
		checkoutapp.Options{
			BaseURL:  cfg.Checkout.PublicBaseURL,
			Currency: cfg.Checkout.Currency,
		},
		log.With(slog.String("component", "checkout")),
	)
	if cfg.Checkout.Endpoint == "" {
		log.Warn("CHECKOUT_ENDPOINT not set, checkout will fail")
	}

	secret, err := sessionSecret(cfg, log)
	if err != nil {
		return err
	}

	handler := newRouter(services{
		carts:    carts,
		products: cartadapter.NewCatalogServiceReader(catalogSvc),
		catalog:  catalogSvc,
		checkout: checkoutSvc,
		orders:   orderSvc,
		verifier: identity.NewVerifier(secret, cfg.Session.Issuer),
		ready:    ready,
	}, log)

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", grpcAddr, err)
	}
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("grpc starting", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")
		healthSrv.Shutdown()

		httpErr := shutdown.Graceful(log, "http", stopTimeout, httpServer.Shutdown, func() { _ = httpServer.Close() })
		grpcErr := shutdown.Graceful(log, "grpc", stopTimeout, func(context.Context) error {
			grpcServer.GracefulStop()
			return nil
		}, grpcServer.Stop)
		return errors.Join(httpErr, grpcErr)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", slog.Any("err", err))
		return err
	}
	log.Info("bye")
	return nil
}

func openDB(ctx context.Context, cfg postgres.Config) (*sql.DB, error) {
	db, err := postgres.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return db, nil
}

// sessionSecret falls back to a random per-process key outside prod, so
// locally minted tokens stop working across restarts.
func sessionSecret(cfg config.Config, log *slog.Logger) ([]byte, error) {
	if cfg.Session.Secret != "" {
		return []byte(cfg.Session.Secret), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("session key generation: %w", err)
	}
	log.Warn("SESSION_SECRET not set, using an ephemeral key")
	return key, nil
}
