package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"shop-backend/internal/auth"
	"shop-backend/internal/order"
	"shop-backend/internal/product"
	"shop-backend/internal/user"
)

// NewRouter wires every surface: open auth routes, token-protected customer
// routes and admin routes behind the admin gate.
func NewRouter(users user.Service, products product.Service, orders order.Service, tokens *auth.TokenManager) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	authHandler := NewAuthHandler(users, tokens)
	authHandler.RegisterRoutes(router)

	customerHandler := NewCustomerHandler(products, orders)
	router.Route("/customer", func(r chi.Router) {
		r.Use(auth.Authenticator(tokens))
		customerHandler.RegisterRoutes(r)
	})

	adminHandler := NewAdminHandler(products, orders)
	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticator(tokens))
		r.Use(auth.RequireAdmin)
		adminHandler.RegisterRoutes(r)
	})

	return router
}
