package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/nico-salsa/sofkify-storefront/internal/domain"
)

// MockCartAPI implements CartAPI and records every call in order so tests can
// assert the exact network sequence.
type MockCartAPI struct {
	mu    sync.Mutex
	calls []string

	ActiveCartFn func(customerID string) (*domain.BackendCart, error)
	AddItemFn    func(customerID, productID string, quantity int) (*domain.BackendCart, error)
	ConfirmFn    func(cartID, customerID string) (*domain.ConfirmCartResponse, error)
}

func (m *MockCartAPI) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *MockCartAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockCartAPI) ActiveCart(_ context.Context, customerID string) (*domain.BackendCart, error) {
	m.record(fmt.Sprintf("ActiveCart(%s)", customerID))
	return m.ActiveCartFn(customerID)
}

func (m *MockCartAPI) AddItem(_ context.Context, customerID, productID string, quantity int) (*domain.BackendCart, error) {
	m.record(fmt.Sprintf("AddItem(%s,%s,%d)", customerID, productID, quantity))
	return m.AddItemFn(customerID, productID, quantity)
}

func (m *MockCartAPI) Confirm(_ context.Context, cartID, customerID string) (*domain.ConfirmCartResponse, error) {
	m.record(fmt.Sprintf("Confirm(%s,%s)", cartID, customerID))
	return m.ConfirmFn(cartID, customerID)
}

// MockOrderAPI implements OrderAPI.
type MockOrderAPI struct {
	mu    sync.Mutex
	calls []string

	CreateFromCartFn func(cartID string) (*domain.Order, error)
}

func (m *MockOrderAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockOrderAPI) CreateFromCart(_ context.Context, cartID string) (*domain.Order, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fmt.Sprintf("CreateFromCart(%s)", cartID))
	m.mu.Unlock()
	return m.CreateFromCartFn(cartID)
}

func activeCartNotFound(string) (*domain.BackendCart, error) {
	return nil, domain.NewFailure(domain.CodeNotFound, "no active cart")
}

func addItemReturningCart(cartID string) func(string, string, int) (*domain.BackendCart, error) {
	return func(customerID, productID string, quantity int) (*domain.BackendCart, error) {
		return &domain.BackendCart{ID: cartID, CustomerID: customerID, Status: domain.CartStatusActive}, nil
	}
}

func confirmSucceeding(orderID string) func(string, string) (*domain.ConfirmCartResponse, error) {
	return func(cartID, customerID string) (*domain.ConfirmCartResponse, error) {
		return &domain.ConfirmCartResponse{Success: true, CartID: cartID, OrderID: orderID}, nil
	}
}

func createOrderSucceeding(orderID string) func(string) (*domain.Order, error) {
	return func(cartID string) (*domain.Order, error) {
		return &domain.Order{ID: orderID, CartID: cartID, Status: domain.OrderStatusPending}, nil
	}
}
