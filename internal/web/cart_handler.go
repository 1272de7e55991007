package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/nico-salsa/sofkify-storefront/internal/cartstore"
	"github.com/nico-salsa/sofkify-storefront/internal/domain"
)

var validate = validator.New()

// ProductCatalog is the slice of the product client the cart handler needs.
type ProductCatalog interface {
	Products(ctx context.Context) ([]domain.Product, error)
	ProductByID(ctx context.Context, productID string) (*domain.Product, error)
}

type CartHandler struct {
	store    cartstore.Store
	products ProductCatalog
	timeout  time.Duration
}

func NewCartHandler(store cartstore.Store, products ProductCatalog, timeout time.Duration) *CartHandler {
	return &CartHandler{store: store, products: products, timeout: timeout}
}

type AddCartItemRequestDTO struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=99"`
}

type UpdateCartQuantityRequestDTO struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=99"`
}

type CartResponseDTO struct {
	Items         []domain.CartItem `json:"items"`
	Total         float64           `json:"total"`
	TotalQuantity int               `json:"totalQuantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	items, err := h.store.Items(ctx, identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load cart")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(items))
}

// AddItem resolves the product from the catalog and merges it into the local
// cart. This never touches the backend cart; that write happens only inside
// the checkout orchestrator.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	product, err := h.products.ProductByID(ctx, req.ProductID)
	if err != nil {
		respondFailure(w, domain.AsFailure(err))
		return
	}

	items, err := h.store.Items(ctx, identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load cart")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	requested := req.Quantity
	for _, item := range items {
		if item.ID == product.ID {
			requested += item.Quantity
		}
	}
	if requested > product.Stock {
		failure := domain.NewFailure(domain.CodeStockError, "not enough stock available")
		failure.Details = &domain.FailureDetails{
			ProductID: product.ID,
			Available: product.Stock,
			Requested: requested,
		}
		respondFailure(w, failure)
		return
	}

	items, err = h.store.AddItem(ctx, identity.ID, domain.CartItem{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Image:       product.Image,
		Quantity:    req.Quantity,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to add cart item")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add cart item")
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(items))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateCartQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
		return
	}

	items, err := h.store.UpdateQuantity(ctx, identity.ID, productID, req.Quantity)
	if err != nil {
		log.Error().Err(err).Msg("failed to update cart item")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart item")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(items))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	items, err := h.store.RemoveItem(ctx, identity.ID, productID)
	if err != nil {
		log.Error().Err(err).Msg("failed to remove cart item")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove cart item")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(items))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.store.Clear(ctx, identity.ID); err != nil {
		log.Error().Err(err).Msg("failed to clear cart")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse([]domain.CartItem{}))
}

func cartResponse(items []domain.CartItem) CartResponseDTO {
	total, quantity := cartstore.Totals(items)
	return CartResponseDTO{Items: items, Total: total, TotalQuantity: quantity}
}
