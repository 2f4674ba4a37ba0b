package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"concert-ticketing/internal/models"
	"concert-ticketing/internal/services"
)

const defaultUpcomingCount = 10

type ConcertHandler struct {
	concerts services.ConcertStore
}

func NewConcertHandler(concerts services.ConcertStore) *ConcertHandler {
	return &ConcertHandler{concerts: concerts}
}

// Upcoming handles GET /api/concerts?take=
func (h *ConcertHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	take, err := intQuery(r, "take", defaultUpcomingCount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	concerts, err := h.concerts.GetUpcoming(r.Context(), take)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if concerts == nil {
		concerts = []*models.Concert{}
	}
	writeJSON(w, http.StatusOK, concerts)
}

// Get handles GET /api/concerts/{concertId}
func (h *ConcertHandler) Get(w http.ResponseWriter, r *http.Request) {
	concert, err := h.concerts.GetByID(r.Context(), chi.URLParam(r, "concertId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, concert)
}

// Create handles POST /api/concerts
func (h *ConcertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ConcertRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	concert, err := h.concerts.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, concert)
}

// Update handles PUT /api/concerts/{concertId}
func (h *ConcertHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.ConcertUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	concert, err := h.concerts.Update(r.Context(), chi.URLParam(r, "concertId"), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, concert)
}

// Delete handles DELETE /api/concerts/{concertId}
func (h *ConcertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.concerts.Delete(r.Context(), chi.URLParam(r, "concertId")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
