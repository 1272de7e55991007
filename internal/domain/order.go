package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusFailed    OrderStatus = "failed"
)

func (s OrderStatus) String() string {
	return string(s)
}

// OrderStatusFromString normalizes a backend status value. Anything the
// storefront does not recognize degrades to pending.
func OrderStatusFromString(s string) OrderStatus {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusFailed:
		return OrderStatus(s)
	default:
		return OrderStatusPending
	}
}

type OrderItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

// Order is created once per confirmed cart. It is immutable on the storefront
// side; status transitions are driven by the order service.
type Order struct {
	ID         string      `json:"id"`
	CartID     string      `json:"cartId"`
	CustomerID string      `json:"customerId"`
	Items      []OrderItem `json:"items"`
	Total      float64     `json:"total"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
