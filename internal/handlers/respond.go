package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"concert-ticketing/internal/middleware"
	"concert-ticketing/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Warn("Failed to write JSON response")
	}
}

// writeError maps an error kind to its status code. Unclassified errors are
// logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case models.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{ErrorMessage: rootMessage(err)})
	case models.IsInvalidOperation(err):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{ErrorMessage: rootMessage(err)})
	default:
		log.WithFields(log.Fields{
			"path":       r.URL.Path,
			"request_id": middleware.GetRequestID(r.Context()),
		}).WithError(err).Error("Request failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{ErrorMessage: "An unexpected error occurred."})
	}
}

// rootMessage returns the message of the classified error, without the
// wrapping context added on the way up.
func rootMessage(err error) string {
	var notFound *models.ErrNotFound
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	var invalid *models.ErrInvalidOperation
	if errors.As(err, &invalid) {
		return invalid.Error()
	}
	return err.Error()
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.InvalidOperationf("Invalid request body.")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return models.InvalidOperationf("Invalid value for field '%s'.", verrs[0].Field())
		}
		return models.InvalidOperationf("Invalid request body.")
	}
	return nil
}

// intQuery parses a non-negative integer query parameter.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, models.InvalidOperationf("Query parameter '%s' must be a non-negative integer.", name)
	}
	return v, nil
}

func paging(r *http.Request, defaultTake int) (skip, take int, err error) {
	if skip, err = intQuery(r, "skip", 0); err != nil {
		return 0, 0, err
	}
	if take, err = intQuery(r, "take", defaultTake); err != nil {
		return 0, 0, err
	}
	return skip, take, nil
}
