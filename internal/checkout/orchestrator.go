// Package checkout owns the confirm-and-order sequence: reconcile the local
// cart against the backend cart resource, confirm it, create the order.
package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nico-salsa/sofkify-storefront/internal/auth"
	"github.com/nico-salsa/sofkify-storefront/internal/domain"
)

// LineItem is the minimal submission shape reconciliation needs.
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Result is the payload of a successful run.
type Result struct {
	Confirmation domain.ConfirmCartResponse `json:"confirmation"`
	Order        domain.Order               `json:"order"`
}

// State is a snapshot of the orchestrator. Exactly one of Result/Failure is
// set in a terminal state.
type State struct {
	Status  Status          `json:"status"`
	Result  *Result         `json:"result,omitempty"`
	Failure *domain.Failure `json:"failure,omitempty"`
}

type CartAPI interface {
	ActiveCart(ctx context.Context, customerID string) (*domain.BackendCart, error)
	AddItem(ctx context.Context, customerID, productID string, quantity int) (*domain.BackendCart, error)
	Confirm(ctx context.Context, cartID, customerID string) (*domain.ConfirmCartResponse, error)
}

type OrderAPI interface {
	CreateFromCart(ctx context.Context, cartID string) (*domain.Order, error)
}

// Orchestrator runs at most one confirmation at a time. A second Confirm call
// while one is in flight is a no-op that returns the current state without
// starting another network sequence.
type Orchestrator struct {
	carts  CartAPI
	orders OrderAPI
	logger zerolog.Logger

	mu         sync.Mutex
	processing bool
	state      State
}

func NewOrchestrator(carts CartAPI, orders OrderAPI, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		carts:  carts,
		orders: orders,
		logger: logger,
		state:  State{Status: StatusIdle},
	}
}

// Confirm drives the full sequence and returns the resulting state. Failures
// are data, not errors: every fault is coerced into the uniform failure shape.
func (o *Orchestrator) Confirm(ctx context.Context, identity *auth.Identity, items []LineItem) State {
	o.mu.Lock()
	if o.processing {
		o.logger.Warn().Msg("cart confirmation already in progress")
		current := o.state
		o.mu.Unlock()
		return current
	}
	o.processing = true
	o.state = State{Status: StatusProcessing}
	o.mu.Unlock()

	attemptID := uuid.NewString()
	result, err := o.run(ctx, attemptID, identity, items)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.processing = false // released on every path, success or failure

	if err != nil {
		failure := domain.AsFailure(err)
		o.state = State{Status: StatusFailed, Failure: failure}
		o.logger.Error().
			Str("attempt_id", attemptID).
			Str("code", string(failure.Code)).
			Str("message", failure.Message).
			Msg("cart confirmation failed")
		return o.state
	}

	o.state = State{Status: StatusSucceeded, Result: result}
	o.logger.Info().
		Str("attempt_id", attemptID).
		Str("cart_id", result.Confirmation.CartID).
		Str("order_id", result.Order.ID).
		Msg("cart confirmation succeeded")
	return o.state
}

// State returns the current snapshot.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Reset clears the orchestrator back to Idle and releases the processing
// guard unconditionally, so the UI can retry after rendering a failure.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processing = false
	o.state = State{Status: StatusIdle}
}

func (o *Orchestrator) run(ctx context.Context, attemptID string, identity *auth.Identity, items []LineItem) (*Result, error) {
	if identity == nil || identity.ID == "" {
		return nil, domain.NewFailure(domain.CodeUnauthorized, "user not authenticated")
	}
	if len(items) == 0 {
		return nil, domain.NewFailure(domain.CodeEmptyCart, "no items to confirm")
	}
	customerID := identity.ID

	cartID, needsPush, err := o.reconcile(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if needsPush {
		cartID, err = o.pushItems(ctx, customerID, items)
		if err != nil {
			return nil, err
		}
	}
	if cartID == "" {
		return nil, domain.NewFailure(domain.CodeEmptyCart, "backend cart could not be created")
	}

	o.logger.Info().
		Str("attempt_id", attemptID).
		Str("customer_id", customerID).
		Str("cart_id", cartID).
		Bool("pushed_items", needsPush).
		Msg("backend cart reconciled, confirming")

	confirmation, err := o.carts.Confirm(ctx, cartID, customerID)
	if err != nil {
		return nil, err
	}

	// Known gap: if order creation fails here the cart stays CONFIRMED with no
	// order. The failure carries the cart id so the attempt can be reconciled
	// out of band; there is no compensating action.
	order, err := o.orders.CreateFromCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	return &Result{Confirmation: *confirmation, Order: *order}, nil
}

// reconcile aligns the local cart intent with the authoritative backend cart
// before confirming. It decides whether an existing cart id can be reused and
// whether the local items still have to be pushed.
func (o *Orchestrator) reconcile(ctx context.Context, customerID string) (cartID string, needsPush bool, err error) {
	cart, err := o.carts.ActiveCart(ctx, customerID)
	if err != nil {
		var failure *domain.Failure
		if errors.As(err, &failure) && failure.Code == domain.CodeNotFound {
			// no active cart yet; the first add will create one
			return "", true, nil
		}
		return "", false, err
	}

	switch {
	case cart.Status == domain.CartStatusConfirmed:
		// a confirmed cart takes no further item mutations; pushing the items
		// makes the cart service open a fresh one
		return "", true, nil
	case len(cart.Items) == 0:
		return cart.ID, true, nil
	default:
		return cart.ID, false, nil
	}
}

// pushItems submits the local items one by one. The loop is deliberately
// sequential: each response carries the authoritative cart id, and sequential
// calls keep first-add cart creation race-free on the server side.
func (o *Orchestrator) pushItems(ctx context.Context, customerID string, items []LineItem) (string, error) {
	var cartID string
	for _, item := range items {
		cart, err := o.carts.AddItem(ctx, customerID, item.ProductID, item.Quantity)
		if err != nil {
			return "", err
		}
		cartID = cart.ID
	}
	return cartID, nil
}
