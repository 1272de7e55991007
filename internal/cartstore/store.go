// Package cartstore holds the storefront-local mirror of what each customer
// intends to buy. It is purely optimistic: it never writes to the backend
// cart. Synchronization with the cart service happens exclusively inside the
// checkout orchestrator's reconciliation step, so there is a single writer to
// the backend resource and quantities cannot be double-counted.
package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nico-salsa/sofkify-storefront/internal/domain"
)

type Store interface {
	Items(ctx context.Context, customerID string) ([]domain.CartItem, error)
	AddItem(ctx context.Context, customerID string, item domain.CartItem) ([]domain.CartItem, error)
	RemoveItem(ctx context.Context, customerID, productID string) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, customerID, productID string, quantity int) ([]domain.CartItem, error)
	Clear(ctx context.Context, customerID string) error
}

type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisStore(client *redis.Client, logger zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

// Items loads the stored cart. A missing key is an empty cart; a corrupt blob
// also degrades to an empty cart rather than surfacing an error.
func (s *RedisStore) Items(ctx context.Context, customerID string) ([]domain.CartItem, error) {
	data, err := s.client.Get(ctx, storeKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for customer %s: %w", customerID, err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn().Err(err).Str("customer_id", customerID).Msg("stored cart is corrupt, starting empty")
		return []domain.CartItem{}, nil
	}
	return items, nil
}

// AddItem appends the product or, when it is already in the cart, increments
// its quantity and recomputes the subtotal.
func (s *RedisStore) AddItem(ctx context.Context, customerID string, item domain.CartItem) ([]domain.CartItem, error) {
	items, err := s.Items(ctx, customerID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity += item.Quantity
			items[i].Subtotal = items[i].Price * float64(items[i].Quantity)
			found = true
			break
		}
	}
	if !found {
		item.Subtotal = item.Price * float64(item.Quantity)
		items = append(items, item)
	}

	if err := s.save(ctx, customerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *RedisStore) RemoveItem(ctx context.Context, customerID, productID string) ([]domain.CartItem, error) {
	items, err := s.Items(ctx, customerID)
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}

	if err := s.save(ctx, customerID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// UpdateQuantity sets the quantity for a product already in the cart; a
// quantity of zero or less removes it.
func (s *RedisStore) UpdateQuantity(ctx context.Context, customerID, productID string, quantity int) ([]domain.CartItem, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, customerID, productID)
	}

	items, err := s.Items(ctx, customerID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == productID {
			items[i].Quantity = quantity
			items[i].Subtotal = items[i].Price * float64(quantity)
			break
		}
	}

	if err := s.save(ctx, customerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *RedisStore) Clear(ctx context.Context, customerID string) error {
	if err := s.client.Del(ctx, storeKey(customerID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart for customer %s: %w", customerID, err)
	}
	return nil
}

// save persists the full contents on every change; the cart survives
// storefront restarts, so no TTL is applied.
func (s *RedisStore) save(ctx context.Context, customerID string, items []domain.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart for customer %s: %w", customerID, err)
	}
	if err := s.client.Set(ctx, storeKey(customerID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist cart for customer %s: %w", customerID, err)
	}
	return nil
}

// Totals sums the cart the same way on every surface that renders it.
func Totals(items []domain.CartItem) (total float64, quantity int) {
	for _, item := range items {
		total += item.Subtotal
		quantity += item.Quantity
	}
	return total, quantity
}

func storeKey(customerID string) string {
	return "cart:local:" + customerID
}
