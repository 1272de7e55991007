package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nico-salsa/sofkify-storefront/internal/auth"
)

type RouterConfig struct {
	Sessions auth.Store
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Products *ProductsHandler
	Session  *SessionHandler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(cfg.Sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", cfg.Session.Save)
		r.Delete("/session", cfg.Session.Clear)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Products.List)
			r.Get("/{product_id}", cfg.Products.GetByID)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Cart.GetCart)
			r.Delete("/", cfg.Cart.ClearCart)
			r.Post("/items", cfg.Cart.AddItem)
			r.Put("/items/{product_id}", cfg.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", cfg.Cart.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", cfg.Checkout.Confirm)
			r.Get("/", cfg.Checkout.State)
			r.Post("/reset", cfg.Checkout.Reset)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", cfg.Orders.ListMine)
			r.Get("/{order_id}", cfg.Orders.GetByID)
		})
	})

	return r
}
