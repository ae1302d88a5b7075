package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/shanedle/cipher-cart/pkg/postgres"
)

var ErrInvalid = errors.New("invalid config")

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	AppEnv    string `yaml:"appEnv"`
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"` // json or text

	GRPCPort int `yaml:"grpcPort"`
	HTTPPort int `yaml:"httpPort"`

	Cart     CartConfig      `yaml:"cart"`
	Catalog  CatalogConfig   `yaml:"catalog"`
	Postgres postgres.Config `yaml:"postgres"`
	Checkout CheckoutConfig  `yaml:"checkout"`
	Session  SessionConfig   `yaml:"session"`

	OTLPEndpoint string `yaml:"otlpEndpoint"`
}

type CartConfig struct {
	// Backend is memory, redis or postgres.
	Backend   string        `yaml:"backend"`
	RedisAddr string        `yaml:"redisAddr"`
	TTL       time.Duration `yaml:"ttl"`

	// CacheSize and CacheTTL bound the carts held in process memory.
	CacheSize int           `yaml:"cacheSize"`
	CacheTTL  time.Duration `yaml:"cacheTTL"`
}

// CacheIdleTTL is CacheTTL capped at the persisted cart lifetime.
func (c CartConfig) CacheIdleTTL() time.Duration {
	if c.TTL > 0 && c.CacheTTL > c.TTL {
		return c.TTL
	}
	return c.CacheTTL
}

type CatalogConfig struct {
	// Backend is memory or postgres. Orders follow the same choice.
	Backend        string        `yaml:"backend"`
	SearchDebounce time.Duration `yaml:"searchDebounce"`
}

type CheckoutConfig struct {
	Endpoint      string        `yaml:"endpoint"`
	APIKey        string        `yaml:"apiKey"`
	PublicBaseURL string        `yaml:"publicBaseUrl"`
	Currency      string        `yaml:"currency"`
	Timeout       time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

func defaults() Config {
	return Config{
		AppEnv:   "dev",
		LogLevel: "info",
		HTTPPort: 8080,
		GRPCPort: 8081,
		Cart: CartConfig{
			Backend:   BackendMemory,
			RedisAddr: "localhost:6379",
			TTL:       30 * 24 * time.Hour,
			CacheSize: 10000,
			CacheTTL:  15 * time.Minute,
		},
		Catalog: CatalogConfig{
			Backend:        BackendMemory,
			SearchDebounce: 300 * time.Millisecond,
		},
		Postgres: postgres.Config{
			Host: "localhost",
			Port: 5432,
			User: "postgres",
			DB:   "storefront",
		},
		Checkout: CheckoutConfig{
			PublicBaseURL: "http://localhost:3000",
			Currency:      "usd",
			Timeout:       10 * time.Second,
		},
	}
}

// Load starts from defaults, applies the YAML file named by CONFIG_FILE if
// set, then environment overrides.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
		}
	}

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = getEnvInt("GRPC_PORT", cfg.GRPCPort)

	cfg.Cart.Backend = getEnv("CART_BACKEND", cfg.Cart.Backend)
	cfg.Cart.RedisAddr = getEnv("REDIS_ADDR", cfg.Cart.RedisAddr)
	cfg.Cart.TTL = getEnvDuration("CART_TTL", cfg.Cart.TTL)
	cfg.Cart.CacheSize = getEnvInt("CART_CACHE_SIZE", cfg.Cart.CacheSize)
	cfg.Cart.CacheTTL = getEnvDuration("CART_CACHE_TTL", cfg.Cart.CacheTTL)

	cfg.Catalog.Backend = getEnv("CATALOG_BACKEND", cfg.Catalog.Backend)
	cfg.Catalog.SearchDebounce = getEnvDuration("SEARCH_DEBOUNCE", cfg.Catalog.SearchDebounce)

	cfg.Postgres.Host = getEnv("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = getEnvInt("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = getEnv("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Pass = getEnv("POSTGRES_PASSWORD", cfg.Postgres.Pass)
	cfg.Postgres.DB = getEnv("POSTGRES_DB", cfg.Postgres.DB)
	cfg.Postgres.SSLMode = getEnv("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)

	cfg.Checkout.Endpoint = getEnv("CHECKOUT_ENDPOINT", cfg.Checkout.Endpoint)
	cfg.Checkout.APIKey = getEnv("CHECKOUT_API_KEY", cfg.Checkout.APIKey)
	cfg.Checkout.PublicBaseURL = getEnv("PUBLIC_BASE_URL", cfg.Checkout.PublicBaseURL)
	cfg.Checkout.Currency = getEnv("CURRENCY", cfg.Checkout.Currency)

	cfg.Session.Secret = getEnv("SESSION_SECRET", cfg.Session.Secret)
	cfg.Session.Issuer = getEnv("SESSION_ISSUER", cfg.Session.Issuer)

	cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Cart.Backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("%w: cart backend %q", ErrInvalid, c.Cart.Backend)
	}
	switch c.Catalog.Backend {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("%w: catalog backend %q", ErrInvalid, c.Catalog.Backend)
	}
	if c.AppEnv == "prod" && c.Session.Secret == "" {
		return fmt.Errorf("%w: SESSION_SECRET is required in prod", ErrInvalid)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
