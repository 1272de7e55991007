package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nico-salsa/sofkify-storefront/internal/auth"
	"github.com/nico-salsa/sofkify-storefront/internal/backend"
	"github.com/nico-salsa/sofkify-storefront/internal/cartstore"
	"github.com/nico-salsa/sofkify-storefront/internal/checkout"
	"github.com/nico-salsa/sofkify-storefront/internal/config"
	"github.com/nico-salsa/sofkify-storefront/internal/httpx"
	"github.com/nico-salsa/sofkify-storefront/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("service", "storefront").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	transport := httpx.NewClient(cfg.HTTPTimeout, logger)

	cartClient := backend.NewCartClient(transport, cfg.CartsBaseURL)
	orderClient := backend.NewOrderClient(transport, cfg.OrdersBaseURL)
	productClient := backend.NewProductClient(transport, cfg.ProductsBaseURL, redisClient, cfg.ProductCacheTTL, logger)

	sessions := auth.NewRedisStore(redisClient, cfg.SessionTTL)
	localCart := cartstore.NewRedisStore(redisClient, logger)
	registry := checkout.NewRegistry(cartClient, orderClient, logger)

	router := web.NewRouter(web.RouterConfig{
		Sessions: sessions,
		Cart:     web.NewCartHandler(localCart, productClient, cfg.RequestTimeout),
		Checkout: web.NewCheckoutHandler(registry, localCart, cfg.RequestTimeout),
		Orders:   web.NewOrdersHandler(orderClient, cfg.RequestTimeout),
		Products: web.NewProductsHandler(productClient, cfg.RequestTimeout),
		Session:  web.NewSessionHandler(sessions, cfg.RequestTimeout),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("storefront listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
