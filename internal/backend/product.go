package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/nico-salsa/sofkify-storefront/internal/domain"
	"github.com/nico-salsa/sofkify-storefront/internal/httpx"
)

// ProductClient serves read-only catalog queries. Concurrent identical reads
// are collapsed with singleflight and single-product lookups are cached in
// redis for a short TTL; cache trouble degrades to a direct fetch.
type ProductClient struct {
	http    *httpx.Client
	baseURL string
	cache   *redis.Client
	ttl     time.Duration
	group   singleflight.Group
	logger  zerolog.Logger
}

func NewProductClient(client *httpx.Client, baseURL string, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) *ProductClient {
	return &ProductClient{
		http:    client,
		baseURL: baseURL,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

func (c *ProductClient) Products(ctx context.Context) ([]domain.Product, error) {
	result, err, _ := c.group.Do("products", func() (any, error) {
		var products []domain.Product
		if err := c.http.JSON(ctx, http.MethodGet, c.baseURL+"/products", nil, nil, &products); err != nil {
			return nil, mapError(err)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Product), nil
}

func (c *ProductClient) ProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	if cached := c.fromCache(ctx, productID); cached != nil {
		return cached, nil
	}

	result, err, _ := c.group.Do("product:"+productID, func() (any, error) {
		var product domain.Product
		url := fmt.Sprintf("%s/products/%s", c.baseURL, productID)
		if err := c.http.JSON(ctx, http.MethodGet, url, nil, nil, &product); err != nil {
			return nil, mapError(err)
		}
		c.toCache(ctx, &product)
		return &product, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Product), nil
}

func (c *ProductClient) fromCache(ctx context.Context, productID string) *domain.Product {
	if c.cache == nil {
		return nil
	}

	data, err := c.cache.Get(ctx, productCacheKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("product_id", productID).Msg("product cache read failed")
		return nil
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn().Err(err).Str("product_id", productID).Msg("product cache entry corrupt")
		return nil
	}
	return &product
}

func (c *ProductClient) toCache(ctx context.Context, product *domain.Product) {
	if c.cache == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, productCacheKey(product.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("product_id", product.ID).Msg("product cache write failed")
	}
}

func productCacheKey(productID string) string {
	return "product:" + productID
}
