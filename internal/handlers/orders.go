package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"concert-ticketing/internal/models"
	"concert-ticketing/internal/services"
)

const defaultOrderPageSize = 5

// Checkouter converts a user's cart into an order.
type Checkouter interface {
	Checkout(ctx context.Context, userID string) (*models.Order, error)
}

type OrderHandler struct {
	users    services.UserStore
	orders   services.OrderLedger
	checkout Checkouter
}

func NewOrderHandler(users services.UserStore, orders services.OrderLedger, checkout Checkouter) *OrderHandler {
	return &OrderHandler{users: users, orders: orders, checkout: checkout}
}

// Create handles POST /api/users/{userId}/orders by checking out the cart
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if _, err := h.users.GetByID(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.checkout.Checkout(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/users/%s/orders/%s", userID, order.ID))
	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/users/{userId}/orders?skip=&take=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, take, err := paging(r, defaultOrderPageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.orders.GetPageForUser(r.Context(), chi.URLParam(r, "userId"), skip, take)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/users/{userId}/orders/{orderId}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	orderID := chi.URLParam(r, "orderId")

	order, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Orders of other users are reported as missing.
	if order.UserID != userID {
		writeError(w, r, models.NotFoundf("order with id '%s' does not exist", orderID))
		return
	}
	writeJSON(w, http.StatusOK, order)
}
