package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nico-salsa/sofkify-storefront/internal/domain"
	"github.com/nico-salsa/sofkify-storefront/internal/httpx"
)

type OrderClient struct {
	http    *httpx.Client
	baseURL string
}

func NewOrderClient(client *httpx.Client, baseURL string) *OrderClient {
	return &OrderClient{http: client, baseURL: baseURL}
}

// orderResponse is the wire shape of the order service. Item prices come back
// as unitPrice/totalAmount and are mapped onto the normalized order model.
type orderResponse struct {
	ID         string              `json:"id"`
	CartID     string              `json:"cartId"`
	CustomerID string              `json:"customerId"`
	Items      []orderItemResponse `json:"items"`
	Total      float64             `json:"total"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

type orderItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalAmount float64 `json:"totalAmount"`
}

func (r *orderResponse) toDomain() *domain.Order {
	order := &domain.Order{
		ID:         r.ID,
		CartID:     r.CartID,
		CustomerID: r.CustomerID,
		Items:      make([]domain.OrderItem, 0, len(r.Items)),
		Total:      r.Total,
		Status:     domain.OrderStatusFromString(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
			Subtotal:  item.TotalAmount,
		})
	}
	return order
}

// CreateFromCart materializes an order from a confirmed cart. The source cart
// transitions state on success, so calling again with the same cart id fails.
func (c *OrderClient) CreateFromCart(ctx context.Context, cartID string) (*domain.Order, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, domain.NewFailure(domain.CodeUnknown, "cartId must be a non-empty string")
	}

	var resp orderResponse
	err := c.http.JSON(ctx, http.MethodPost, fmt.Sprintf("%s/orders/from-cart/%s", c.baseURL, cartID), nil, nil, &resp)
	if err != nil {
		return nil, mapError(err)
	}
	if resp.ID == "" {
		return nil, domain.NewFailure(domain.CodeUnknown, "invalid order response from server")
	}
	return resp.toDomain(), nil
}

func (c *OrderClient) OrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.NewFailure(domain.CodeUnknown, "orderId must be a non-empty string")
	}

	var resp orderResponse
	err := c.http.JSON(ctx, http.MethodGet, fmt.Sprintf("%s/orders/%s", c.baseURL, orderID), nil, nil, &resp)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.toDomain(), nil
}

// OrdersByCustomer lists a customer's orders. The order service has returned
// both a bare array and an {orders: [...]} wrapper across versions; both are
// accepted.
func (c *OrderClient) OrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, domain.NewFailure(domain.CodeUnknown, "customerId must be a non-empty string")
	}

	var raw json.RawMessage
	err := c.http.JSON(ctx, http.MethodGet, fmt.Sprintf("%s/orders/customer/%s", c.baseURL, customerID), nil, nil, &raw)
	if err != nil {
		return nil, mapError(err)
	}

	var list []orderResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		var wrapper struct {
			Orders []orderResponse `json:"orders"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, domain.NewFailure(domain.CodeUnknown, "invalid orders response from server")
		}
		list = wrapper.Orders
	}

	orders := make([]domain.Order, 0, len(list))
	for i := range list {
		orders = append(orders, *list[i].toDomain())
	}
	return orders, nil
}
