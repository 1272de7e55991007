package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nico-salsa/sofkify-storefront/internal/domain"
)

type ProductsHandler struct {
	products ProductCatalog
	timeout  time.Duration
}

func NewProductsHandler(products ProductCatalog, timeout time.Duration) *ProductsHandler {
	return &ProductsHandler{products: products, timeout: timeout}
}

func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.Products(ctx)
	if err != nil {
		respondFailure(w, domain.AsFailure(err))
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *ProductsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	product, err := h.products.ProductByID(ctx, productID)
	if err != nil {
		respondFailure(w, domain.AsFailure(err))
		return
	}

	respondJSON(w, http.StatusOK, product)
}
