package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nico-salsa/sofkify-storefront/internal/domain"
	"github.com/nico-salsa/sofkify-storefront/internal/httpx"
)

func newTransport(t *testing.T) *httpx.Client {
	t.Helper()
	return httpx.NewClient(2*time.Second, zerolog.Nop())
}

func TestCartClient_AddItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/carts/items", r.URL.Path)
		assert.Equal(t, "u1", r.Header.Get("X-Customer-Id"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["productId"])
		assert.Equal(t, float64(2), body["quantity"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.BackendCart{
			ID:         "cart-1",
			CustomerID: "u1",
			Status:     domain.CartStatusActive,
			Items:      []domain.BackendCartItem{{ProductID: "p1", Quantity: 2}},
		})
	}))
	defer srv.Close()

	client := NewCartClient(newTransport(t), srv.URL)
	cart, err := client.AddItem(context.Background(), "u1", "p1", 2)

	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	assert.Equal(t, domain.CartStatusActive, cart.Status)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartClient_ActiveCart_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/carts", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no active cart for customer"}`))
	}))
	defer srv.Close()

	client := NewCartClient(newTransport(t), srv.URL)
	cart, err := client.ActiveCart(context.Background(), "u1")

	assert.Nil(t, cart)
	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, domain.CodeNotFound, failure.Code)
	assert.Equal(t, "no active cart for customer", failure.Message)
}

func TestCartClient_Confirm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/carts/cart-1/confirm", r.URL.Path)
		assert.Equal(t, "u1", r.Header.Get("X-Customer-Id"))
		json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"cartId":      "cart-1",
			"confirmedAt": time.Now().UTC().Format(time.RFC3339),
			"orderId":     "order-1",
		})
	}))
	defer srv.Close()

	client := NewCartClient(newTransport(t), srv.URL)
	confirmation, err := client.Confirm(context.Background(), "cart-1", "u1")

	require.NoError(t, err)
	assert.True(t, confirmation.Success)
	assert.Equal(t, "cart-1", confirmation.CartID)
	assert.Equal(t, "order-1", confirmation.OrderID)
	assert.False(t, confirmation.ConfirmedAt.IsZero())
}

func TestCartClient_Confirm_ConflictMapsToStockError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"insufficient stock","details":{"productId":"p1","available":1,"requested":3}}`))
	}))
	defer srv.Close()

	client := NewCartClient(newTransport(t), srv.URL)
	_, err := client.Confirm(context.Background(), "cart-1", "u1")

	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, domain.CodeStockError, failure.Code)
	require.NotNil(t, failure.Details)
	assert.Equal(t, "p1", failure.Details.ProductID)
	assert.Equal(t, 1, failure.Details.Available)
	assert.Equal(t, 3, failure.Details.Requested)
}

func TestCartClient_UnauthorizedMapping(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := NewCartClient(newTransport(t), srv.URL)
		_, err := client.ActiveCart(context.Background(), "u1")
		srv.Close()

		var failure *domain.Failure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, domain.CodeUnauthorized, failure.Code)
	}
}

func TestCartClient_ServerErrorMapsToUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewCartClient(newTransport(t), srv.URL)
	_, err := client.AddItem(context.Background(), "u1", "p1", 1)

	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, domain.CodeUnknown, failure.Code)
}

func TestCartClient_TimeoutMapsToTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewCartClient(httpx.NewClient(50*time.Millisecond, zerolog.Nop()), srv.URL)
	_, err := client.ActiveCart(context.Background(), "u1")

	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, domain.CodeTimeout, failure.Code)
}

func TestCartClient_UpdateAndRemoveItem(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewCartClient(newTransport(t), srv.URL)

	require.NoError(t, client.UpdateItemQuantity(context.Background(), "item-1", 4))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/carts/items/item-1", gotPath)

	require.NoError(t, client.RemoveItem(context.Background(), "item-1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/carts/items/item-1", gotPath)
}
