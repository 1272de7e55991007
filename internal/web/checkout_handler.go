package web

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nico-salsa/sofkify-storefront/internal/cartstore"
	"github.com/nico-salsa/sofkify-storefront/internal/checkout"
)

type CheckoutHandler struct {
	registry *checkout.Registry
	store    cartstore.Store
	timeout  time.Duration
}

func NewCheckoutHandler(registry *checkout.Registry, store cartstore.Store, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{registry: registry, store: store, timeout: timeout}
}

// Confirm submits the local cart through the orchestrator. On success the
// local mirror is cleared; the backend cart is consumed by the order either
// way, so keeping stale local state would only invite a double submit.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	items, err := h.store.Items(ctx, identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load cart for checkout")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	lineItems := make([]checkout.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, checkout.LineItem{ProductID: item.ID, Quantity: item.Quantity})
	}

	state := h.registry.For(identity.ID).Confirm(ctx, identity, lineItems)

	switch state.Status {
	case checkout.StatusSucceeded:
		if err := h.store.Clear(ctx, identity.ID); err != nil {
			log.Error().Err(err).Str("customer_id", identity.ID).Msg("failed to clear cart after confirmation")
		}
		respondJSON(w, http.StatusOK, state)
	case checkout.StatusFailed:
		log.Warn().
			Str("request_id", getRequestID(r.Context())).
			Str("customer_id", identity.ID).
			Str("code", string(state.Failure.Code)).
			Msg("cart confirmation rejected")
		respondFailure(w, state.Failure)
	default:
		// another confirmation for this customer is still in flight
		respondJSON(w, http.StatusAccepted, state)
	}
}

func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, h.registry.For(identity.ID).State())
}

func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	h.registry.Reset(identity.ID)
	w.WriteHeader(http.StatusNoContent)
}
