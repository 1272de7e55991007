package domain

import "time"

// CartItem is the storefront-local view of a product the customer intends to
// buy. Subtotal is recomputed on every quantity change so it always equals
// Price * Quantity.
type CartItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

type CartStatus string

const (
	CartStatusActive    CartStatus = "ACTIVE"
	CartStatusConfirmed CartStatus = "CONFIRMED"
)

func (s CartStatus) String() string {
	return string(s)
}

// BackendCart is the authoritative cart resource owned by the cart service.
// The service creates it implicitly on the first item add for a customer with
// no active cart, and it transitions ACTIVE -> CONFIRMED exactly once.
type BackendCart struct {
	ID          string            `json:"id"`
	CustomerID  string            `json:"customerId"`
	Status      CartStatus        `json:"status"`
	Items       []BackendCartItem `json:"items"`
	TotalAmount float64           `json:"totalAmount"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// BackendCartItem holds one row per distinct product; adding the same product
// again increments Quantity instead of duplicating the row.
type BackendCartItem struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	ProductPrice float64   `json:"productPrice"`
	Quantity     int       `json:"quantity"`
	Subtotal     float64   `json:"subtotal"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ConfirmCartResponse is produced exactly once per successful confirm call.
// Confirming an already-CONFIRMED cart fails on the server side.
type ConfirmCartResponse struct {
	Success     bool      `json:"success"`
	CartID      string    `json:"cartId"`
	ConfirmedAt time.Time `json:"confirmedAt"`
	OrderID     string    `json:"orderId"`
}
