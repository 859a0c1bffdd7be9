package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/navikt/zbook/internal/models"
)

// RoomHandler handles HTTP requests for room management and room status
type RoomHandler struct {
	rooms RoomServicer
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms RoomServicer) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// Register adds the room routes to r
func (h *RoomHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/rooms", h.listRooms).Methods(http.MethodGet)
	r.HandleFunc("/api/rooms", h.createRoom).Methods(http.MethodPost)
	r.HandleFunc("/api/rooms/{id}", h.getRoom).Methods(http.MethodGet)
	r.HandleFunc("/api/rooms/{id}", h.updateRoom).Methods(http.MethodPut)
	r.HandleFunc("/api/rooms/{id}", h.deleteRoom).Methods(http.MethodDelete)
	r.HandleFunc("/api/rooms/{id}/status", h.roomStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/status", h.statusBoard).Methods(http.MethodGet)
}

// listRooms handles GET /api/rooms
func (h *RoomHandler) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		writeServiceError(w, "listRooms", err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// createRoom handles POST /api/rooms
func (h *RoomHandler) createRoom(w http.ResponseWriter, r *http.Request) {
	var room models.Room
	if err := decodeJSON(r, &room); err != nil {
		log.Printf("Error decoding room request: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.rooms.CreateRoom(r.Context(), &room)
	if err != nil {
		writeServiceError(w, "createRoom", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// getRoom handles GET /api/rooms/{id}
func (h *RoomHandler) getRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.GetRoom(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "getRoom", err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// updateRoom handles PUT /api/rooms/{id}
func (h *RoomHandler) updateRoom(w http.ResponseWriter, r *http.Request) {
	var room models.Room
	if err := decodeJSON(r, &room); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	room.ID = mux.Vars(r)["id"]

	updated, err := h.rooms.UpdateRoom(r.Context(), &room)
	if err != nil {
		writeServiceError(w, "updateRoom", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteRoom handles DELETE /api/rooms/{id}
func (h *RoomHandler) deleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.DeleteRoom(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, "deleteRoom", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// roomStatus handles GET /api/rooms/{id}/status
func (h *RoomHandler) roomStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.rooms.RoomStatus(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "roomStatus", err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// statusBoard handles GET /api/status
func (h *RoomHandler) statusBoard(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.rooms.RoomStatuses(r.Context())
	if err != nil {
		writeServiceError(w, "statusBoard", err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}
