package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(timeout time.Duration) *Client {
	return NewClient(timeout, zerolog.Nop())
}

func TestJSON_DecodesSuccessResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cart-1","status":"ACTIVE"}`))
	}))
	defer srv.Close()

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	err := newTestClient(time.Second).JSON(context.Background(), http.MethodGet, srv.URL, nil, nil, &out)

	require.NoError(t, err)
	assert.Equal(t, "cart-1", out.ID)
	assert.Equal(t, "ACTIVE", out.Status)
}

func TestJSON_SendsBodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "u1", r.Header.Get("X-Customer-Id"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	body := map[string]any{"productId": "p1", "quantity": 2}
	err := newTestClient(time.Second).JSON(context.Background(), http.MethodPost, srv.URL,
		map[string]string{"X-Customer-Id": "u1"}, body, nil)

	require.NoError(t, err)
}

func TestJSON_Non2xxReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"insufficient stock","details":{"productId":"p1"}}`))
	}))
	defer srv.Close()

	err := newTestClient(time.Second).JSON(context.Background(), http.MethodPost, srv.URL, nil, nil, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, http.MethodPost, httpErr.Method)
	assert.Equal(t, srv.URL, httpErr.URL)
	assert.Equal(t, "insufficient stock", httpErr.Message())
	require.NotNil(t, httpErr.Body)
	details, ok := httpErr.Body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p1", details["productId"])
}

func TestJSON_NonJSONErrorBodyKeptRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	err := newTestClient(time.Second).JSON(context.Background(), http.MethodGet, srv.URL, nil, nil, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Nil(t, httpErr.Body)
	assert.Equal(t, "upstream exploded", httpErr.Raw)
	assert.Equal(t, "HTTP 502 on GET "+srv.URL, httpErr.Message())
}

func TestJSON_EmptyErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := newTestClient(time.Second).JSON(context.Background(), http.MethodGet, srv.URL, nil, nil, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Nil(t, httpErr.Body)
	assert.Empty(t, httpErr.Raw)
}

func TestJSON_TimeoutCancelsInFlightCall(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		close(blocked)
	}))
	defer srv.Close()

	start := time.Now()
	err := newTestClient(50*time.Millisecond).JSON(context.Background(), http.MethodGet, srv.URL, nil, nil, nil)

	require.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)

	select {
	case <-blocked:
	case <-time.After(6 * time.Second):
		t.Fatal("server handler never observed cancellation")
	}
}

func TestJSON_BreakerTripsPerHost(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer healthy.Close()

	client := newTestClient(time.Second)

	// nothing listens on this port; every call is a connection-level failure
	deadURL := "http://127.0.0.1:1/carts"
	for i := 0; i < 5; i++ {
		err := client.JSON(context.Background(), http.MethodGet, deadURL, nil, nil, nil)
		require.Error(t, err)
	}

	err := client.JSON(context.Background(), http.MethodGet, deadURL, nil, nil, nil)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)

	// the tripped breaker guards only its own host
	err = client.JSON(context.Background(), http.MethodGet, healthy.URL, nil, nil, nil)
	require.NoError(t, err)
}

func TestJSON_NilOutSkipsDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	err := newTestClient(time.Second).JSON(context.Background(), http.MethodDelete, srv.URL, nil, nil, nil)
	require.NoError(t, err)
}
