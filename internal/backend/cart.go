// Package backend holds the typed HTTP clients for the sofkify services
// (cart, order, product). Clients translate raw transport errors into the
// domain failure taxonomy and never retry; retry policy belongs to callers.
package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nico-salsa/sofkify-storefront/internal/domain"
	"github.com/nico-salsa/sofkify-storefront/internal/httpx"
)

const customerIDHeader = "X-Customer-Id"

type CartClient struct {
	http    *httpx.Client
	baseURL string
}

func NewCartClient(client *httpx.Client, baseURL string) *CartClient {
	return &CartClient{http: client, baseURL: baseURL}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// AddItem pushes one product onto the customer's active cart. The cart service
// creates the cart on the first add for a customer with no active cart, so this
// doubles as the get-or-create write path; the returned cart carries the
// authoritative id.
func (c *CartClient) AddItem(ctx context.Context, customerID, productID string, quantity int) (*domain.BackendCart, error) {
	var cart domain.BackendCart
	err := c.http.JSON(ctx, http.MethodPost, c.baseURL+"/carts/items",
		map[string]string{customerIDHeader: customerID},
		addItemRequest{ProductID: productID, Quantity: quantity},
		&cart,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &cart, nil
}

// ActiveCart fetches the customer's ACTIVE cart. A customer with no active
// cart yields a NOT_FOUND failure.
func (c *CartClient) ActiveCart(ctx context.Context, customerID string) (*domain.BackendCart, error) {
	var cart domain.BackendCart
	err := c.http.JSON(ctx, http.MethodGet, c.baseURL+"/carts",
		map[string]string{customerIDHeader: customerID},
		nil,
		&cart,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &cart, nil
}

// Confirm transitions the cart ACTIVE -> CONFIRMED on the server. Confirming
// an already-confirmed cart fails with a conflict, never silently succeeds.
func (c *CartClient) Confirm(ctx context.Context, cartID, customerID string) (*domain.ConfirmCartResponse, error) {
	var confirmation domain.ConfirmCartResponse
	err := c.http.JSON(ctx, http.MethodPost, fmt.Sprintf("%s/carts/%s/confirm", c.baseURL, cartID),
		map[string]string{customerIDHeader: customerID},
		nil,
		&confirmation,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &confirmation, nil
}

// UpdateItemQuantity changes the quantity of an existing backend cart item.
func (c *CartClient) UpdateItemQuantity(ctx context.Context, cartItemID string, quantity int) error {
	err := c.http.JSON(ctx, http.MethodPut, fmt.Sprintf("%s/carts/items/%s", c.baseURL, cartItemID),
		nil,
		updateQuantityRequest{Quantity: quantity},
		nil,
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// RemoveItem deletes an item from the backend cart.
func (c *CartClient) RemoveItem(ctx context.Context, cartItemID string) error {
	err := c.http.JSON(ctx, http.MethodDelete, fmt.Sprintf("%s/carts/items/%s", c.baseURL, cartItemID),
		nil,
		nil,
		nil,
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}
