package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/navikt/zbook/internal/models"
)

// BookingHandler handles HTTP requests for bookings
type BookingHandler struct {
	bookings BookingServicer
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings BookingServicer) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Register adds the booking routes to r
func (h *BookingHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/bookings", h.listBookings).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings", h.createBooking).Methods(http.MethodPost)
	r.HandleFunc("/api/bookings/{id}", h.getBooking).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings/{id}", h.updateBooking).Methods(http.MethodPut)
	r.HandleFunc("/api/bookings/{id}", h.deleteBooking).Methods(http.MethodDelete)
}

// listBookings handles GET /api/bookings?room={id}
func (h *BookingHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListBookings(r.Context(), r.URL.Query().Get("room"))
	if err != nil {
		writeServiceError(w, "listBookings", err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// createBooking handles POST /api/bookings
func (h *BookingHandler) createBooking(w http.ResponseWriter, r *http.Request) {
	var b models.Booking
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.bookings.CreateBooking(r.Context(), &b)
	if err != nil {
		writeServiceError(w, "createBooking", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// getBooking handles GET /api/bookings/{id}
func (h *BookingHandler) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.GetBooking(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "getBooking", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// updateBooking handles PUT /api/bookings/{id}
func (h *BookingHandler) updateBooking(w http.ResponseWriter, r *http.Request) {
	var b models.Booking
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b.ID = mux.Vars(r)["id"]

	updated, err := h.bookings.UpdateBooking(r.Context(), &b)
	if err != nil {
		writeServiceError(w, "updateBooking", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteBooking handles DELETE /api/bookings/{id}
func (h *BookingHandler) deleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.DeleteBooking(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, "deleteBooking", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
