package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"concert-ticketing/internal/models"
	"concert-ticketing/internal/services"
)

// CartHandler serves a user's cart. Carts are not checked against the user
// store; an unknown user simply has an empty cart.
type CartHandler struct {
	carts       services.CartStore
	concerts    services.ConcertStore
	maxQuantity int
}

// NewCartHandler caps each cart line at maxQuantity, the same cap checkout
// applies per concert.
func NewCartHandler(carts services.CartStore, concerts services.ConcertStore, maxQuantity int) *CartHandler {
	if maxQuantity <= 0 {
		maxQuantity = services.DefaultMaxTicketsPerPurchase
	}
	return &CartHandler{carts: carts, concerts: concerts, maxQuantity: maxQuantity}
}

// Get handles GET /api/users/{userId}/carts
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.GetCart(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart.Items())
}

// Update handles PUT /api/users/{userId}/carts. A quantity of zero removes
// the concert from the cart.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.CartItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Quantity > h.maxQuantity {
		writeError(w, r, models.InvalidOperationf("Quantity can't exceed %d tickets per concert.", h.maxQuantity))
		return
	}

	if _, err := h.concerts.GetByID(r.Context(), req.ConcertID); err != nil {
		writeError(w, r, err)
		return
	}

	cart, err := h.carts.UpdateCart(r.Context(), chi.URLParam(r, "userId"), req.ConcertID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart.Items())
}

// Clear handles DELETE /api/users/{userId}/carts
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.ClearCart(r.Context(), chi.URLParam(r, "userId")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
