package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nico-salsa/sofkify-storefront/internal/domain"
)

// OrderReader is the slice of the order client the handler needs.
type OrderReader interface {
	OrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	OrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}

type OrdersHandler struct {
	orders  OrderReader
	timeout time.Duration
}

func NewOrdersHandler(orders OrderReader, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{orders: orders, timeout: timeout}
}

func (h *OrdersHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.OrdersByCustomer(ctx, identity.ID)
	if err != nil {
		respondFailure(w, domain.AsFailure(err))
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, ok := requireIdentity(w, r); !ok {
		return
	}

	orderID := chi.URLParam(r, "order_id")
	order, err := h.orders.OrderByID(ctx, orderID)
	if err != nil {
		respondFailure(w, domain.AsFailure(err))
		return
	}

	respondJSON(w, http.StatusOK, order)
}
