package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/navikt/zbook/internal/booking"
	"github.com/navikt/zbook/internal/models"
	"github.com/navikt/zbook/internal/service"
)

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error          string   `json:"error"`
	ConflictingIDs []string `json:"conflicting_ids,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps domain errors to HTTP status codes
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var conflict *booking.ConflictError

	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:          err.Error(),
			ConflictingIDs: conflict.BookingIDs,
		})
	case errors.Is(err, booking.ErrConflict), errors.Is(err, service.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, booking.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidRoom),
		errors.Is(err, service.ErrInvalidBooking):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrInactiveRoom):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("Error in %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
