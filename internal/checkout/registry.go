package checkout

import (
	"sync"

	"github.com/rs/zerolog"
)

// Registry hands out one orchestrator per customer. The concurrency guard is
// per orchestrator instance, so a slow confirmation for one customer never
// blocks another's checkout.
type Registry struct {
	carts  CartAPI
	orders OrderAPI
	logger zerolog.Logger

	mu         sync.Mutex
	byCustomer map[string]*Orchestrator
}

func NewRegistry(carts CartAPI, orders OrderAPI, logger zerolog.Logger) *Registry {
	return &Registry{
		carts:      carts,
		orders:     orders,
		logger:     logger,
		byCustomer: make(map[string]*Orchestrator),
	}
}

// For returns the orchestrator owning the given customer's checkout state,
// creating it on first use.
func (r *Registry) For(customerID string) *Orchestrator {
	r.mu.Lock()
	defer r.mu.Unlock()

	orchestrator, ok := r.byCustomer[customerID]
	if !ok {
		orchestrator = NewOrchestrator(r.carts, r.orders, r.logger.With().Str("customer_id", customerID).Logger())
		r.byCustomer[customerID] = orchestrator
	}
	return orchestrator
}

// Reset discards the customer's orchestrator entirely. The next For call hands
// out a fresh Idle instance, so customers who reset after a terminal state do
// not accumulate entries in the registry.
func (r *Registry) Reset(customerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if orchestrator, ok := r.byCustomer[customerID]; ok {
		orchestrator.Reset()
		delete(r.byCustomer, customerID)
	}
}
