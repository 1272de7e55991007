// Package httpx is the outbound HTTP transport shared by every backend client.
// It applies a bounded per-request timeout, translates non-2xx responses into
// structured errors and emits request/response log records. Retry policy is
// deliberately left to callers.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrTimeout reports that a call exceeded its deadline and was cancelled
// in flight. It is a distinct condition: the caller never sees partial data.
var ErrTimeout = errors.New("request timed out")

// HTTPError is a non-2xx response. The body is kept (best-effort JSON parse,
// raw text fallback) so callers can map backend error codes.
type HTTPError struct {
	Status int
	Method string
	URL    string
	Body   map[string]any
	Raw    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d on %s %s", e.Status, e.Method, e.URL)
}

// Message returns the backend-supplied message when the body carries one,
// falling back to the generic status line.
func (e *HTTPError) Message() string {
	if msg, ok := e.Body["message"].(string); ok && msg != "" {
		return msg
	}
	return e.Error()
}

type Client struct {
	http    *http.Client
	timeout time.Duration
	logger  zerolog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[*http.Response]
}

// NewClient builds the shared transport. Circuit breakers fail fast when a
// backend keeps erroring at the connection level; they do not retry and non-2xx
// responses do not count against them.
func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		timeout:  timeout,
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker[*http.Response]),
	}
}

// breakerFor returns the breaker guarding the given host, creating it on first
// use. Breakers are keyed per host so one backend's outage cannot fail fast
// calls to the others.
func (c *Client) breakerFor(host string) *gobreaker.CircuitBreaker[*http.Response] {
	c.mu.Lock()
	defer c.mu.Unlock()

	breaker, ok := c.breakers[host]
	if !ok {
		breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:        host,
			MaxRequests: 3,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})
		c.breakers[host] = breaker
	}
	return breaker
}

// JSON issues a request with an optional JSON body and decodes the JSON
// response into out (out may be nil when no body is expected).
func (c *Client) JSON(ctx context.Context, method, url string, headers map[string]string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body for %s %s: %w", method, url, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request %s %s: %w", method, url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.Debug().Str("method", method).Str("url", url).Msg("http request")

	resp, err := c.breakerFor(req.URL.Host).Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		elapsed := time.Since(start)
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			c.logger.Error().Str("method", method).Str("url", url).Dur("elapsed", elapsed).Msg("http timeout")
			return fmt.Errorf("%w after %s on %s %s", ErrTimeout, c.timeout, method, url)
		}
		c.logger.Error().Err(err).Str("method", method).Str("url", url).Dur("elapsed", elapsed).Msg("http error")
		return fmt.Errorf("request failed on %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body from %s %s: %w", method, url, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("http response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(resp.StatusCode, method, url, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response from %s %s: %w", method, url, err)
		}
	}

	return nil
}

func newHTTPError(status int, method, url string, raw []byte) *HTTPError {
	httpErr := &HTTPError{
		Status: status,
		Method: method,
		URL:    url,
		Raw:    string(raw),
	}
	if len(raw) > 0 {
		var parsed map[string]any
		if err := json.Unmarshal(raw, &parsed); err == nil {
			httpErr.Body = parsed
		}
	}
	return httpErr
}
