package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"concert-ticketing/internal/middleware"
)

// Router groups the handlers mounted by NewRouter.
type Router struct {
	Users    *UserHandler
	Carts    *CartHandler
	Orders   *OrderHandler
	Tickets  *TicketHandler
	Concerts *ConcertHandler
	Health   *HealthHandler

	CORS            middleware.CORSConfig
	CheckoutLimiter *middleware.RateLimiter
}

// NewRouter builds the HTTP API.
func NewRouter(rt Router) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ErrorHandlingMiddleware)
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(middleware.CORSMiddleware(rt.CORS))

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/live", rt.Health.Live)
		r.Get("/ready", rt.Health.Ready)

		r.Route("/concerts", func(r chi.Router) {
			r.Get("/", rt.Concerts.Upcoming)
			r.Post("/", rt.Concerts.Create)
			r.Get("/{concertId}", rt.Concerts.Get)
			r.Put("/{concertId}", rt.Concerts.Update)
			r.Delete("/{concertId}", rt.Concerts.Delete)
		})

		r.Get("/tickets/{ticketId}", rt.Tickets.Get)

		r.Post("/users", rt.Users.Create)
		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/", rt.Users.Get)
			r.Patch("/", rt.Users.Update)

			r.Get("/carts", rt.Carts.Get)
			r.Put("/carts", rt.Carts.Update)
			r.Delete("/carts", rt.Carts.Clear)

			r.Get("/tickets", rt.Tickets.ListForUser)

			r.Route("/orders", func(r chi.Router) {
				checkout := http.HandlerFunc(rt.Orders.Create)
				if rt.CheckoutLimiter != nil {
					r.With(middleware.RateLimit(rt.CheckoutLimiter)).Post("/", checkout)
				} else {
					r.Post("/", checkout)
				}
				r.Get("/", rt.Orders.List)
				r.Get("/{orderId}", rt.Orders.Get)
			})
		})
	})

	return r
}
