package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"concert-ticketing/internal/services"
)

const defaultTicketPageSize = 10

type TicketHandler struct {
	tickets services.TicketLedger
}

func NewTicketHandler(tickets services.TicketLedger) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// ListForUser handles GET /api/users/{userId}/tickets?skip=&take=
func (h *TicketHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	skip, take, err := paging(r, defaultTicketPageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.tickets.GetPageForUser(r.Context(), chi.URLParam(r, "userId"), skip, take)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/tickets/{ticketId}
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.tickets.GetByID(r.Context(), chi.URLParam(r, "ticketId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}
