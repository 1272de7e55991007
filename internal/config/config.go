package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the storefront runtime settings. Each backend base URL is
// configurable on its own because the services are deployed independently.
type Config struct {
	Port            string        `envconfig:"PORT" default:"3000"`
	UsersBaseURL    string        `envconfig:"USERS_API_URL" default:"http://localhost:8080/api"`
	ProductsBaseURL string        `envconfig:"PRODUCTS_API_URL" default:"http://localhost:8081/api"`
	OrdersBaseURL   string        `envconfig:"ORDERS_API_URL" default:"http://localhost:8082"`
	CartsBaseURL    string        `envconfig:"CARTS_API_URL" default:"http://localhost:8083/api"`
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	ProductCacheTTL time.Duration `envconfig:"PRODUCT_CACHE_TTL" default:"1m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("STOREFRONT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	for name, value := range map[string]*string{
		"USERS_API_URL":    &cfg.UsersBaseURL,
		"PRODUCTS_API_URL": &cfg.ProductsBaseURL,
		"ORDERS_API_URL":   &cfg.OrdersBaseURL,
		"CARTS_API_URL":    &cfg.CartsBaseURL,
	} {
		normalized, err := normalizeBaseURL(*value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
		*value = normalized
	}

	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}

	return &cfg, nil
}

func normalizeBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL %q must use http or https", raw)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL %q has no host", raw)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}
