package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sweethut/storefront/internal/auth"
	"github.com/sweethut/storefront/internal/cart"
	"github.com/sweethut/storefront/internal/events"
)

// NewRouter wires the storefront API.
func NewRouter(
	catalog Catalog,
	carts *cart.Manager,
	authStore *auth.Store,
	publisher events.Publisher,
	requestTimeout time.Duration,
) *chi.Mux {
	products := NewProductHandler(catalog)
	cartHandler := NewCartHandler(carts, catalog)
	checkoutHandler := NewCheckoutHandler(carts, publisher)
	authHandler := NewAuthHandler(authStore)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(authStore))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/featured", products.Featured)
			r.Get("/{id}", products.Get)
			r.Get("/{id}/related", products.Related)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.Clear)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Begin)
			r.Get("/", checkoutHandler.State)
			r.Post("/shipping", checkoutHandler.SubmitShipping)
			r.Post("/payment", checkoutHandler.SubmitPayment)
			r.Post("/method", checkoutHandler.SetMethod)
			r.Post("/back", checkoutHandler.Back)
			r.Post("/order", checkoutHandler.PlaceOrder)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", authHandler.SignIn)
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signout", authHandler.SignOut)
			r.Get("/me", authHandler.Me)
		})
	})

	return r
}
