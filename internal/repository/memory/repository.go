// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/navikt/zbook/internal/models"
)

// ErrNotFound is returned when a requested entity is not found
var ErrNotFound = models.ErrNotFound

// Repository implements the repository interface with in-memory storage
type Repository struct {
	rooms        map[string]*models.Room
	bookings     map[string]*models.Booking
	roomBookings map[string]map[string]struct{} // room ID -> booking IDs
	mu           sync.RWMutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		rooms:        make(map[string]*models.Room),
		bookings:     make(map[string]*models.Booking),
		roomBookings: make(map[string]map[string]struct{}),
	}
}

// SaveRoom creates or replaces a room
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[room.ID] = copyRoom(room)
	return nil
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRoom(room), nil
}

// ListRooms returns all rooms ordered by ID
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, copyRoom(room))
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	return rooms, nil
}

// DeleteRoom removes a room and all of its bookings
func (r *Repository) DeleteRoom(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return ErrNotFound
	}

	for bookingID := range r.roomBookings[id] {
		delete(r.bookings, bookingID)
	}
	delete(r.roomBookings, id)
	delete(r.rooms, id)

	return nil
}

// SaveBooking creates or replaces a booking, moving it between rooms if needed
func (r *Repository) SaveBooking(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, exists := r.bookings[booking.ID]; exists && previous.RoomID != booking.RoomID {
		delete(r.roomBookings[previous.RoomID], booking.ID)
	}

	ids, ok := r.roomBookings[booking.RoomID]
	if !ok {
		ids = make(map[string]struct{})
		r.roomBookings[booking.RoomID] = ids
	}
	ids[booking.ID] = struct{}{}

	stored := *booking
	r.bookings[booking.ID] = &stored

	return nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *booking
	return &result, nil
}

// ListBookings returns all bookings ordered by start time
func (r *Repository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]*models.Booking, 0, len(r.bookings))
	for _, booking := range r.bookings {
		b := *booking
		bookings = append(bookings, &b)
	}
	sortBookings(bookings)

	return bookings, nil
}

// ListBookingsForRoom returns the bookings of one room ordered by start time
func (r *Repository) ListBookingsForRoom(ctx context.Context, roomID string) ([]*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.roomBookings[roomID]
	bookings := make([]*models.Booking, 0, len(ids))
	for id := range ids {
		b := *r.bookings[id]
		bookings = append(bookings, &b)
	}
	sortBookings(bookings)

	return bookings, nil
}

// DeleteBooking removes a booking by ID
func (r *Repository) DeleteBooking(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}

	delete(r.roomBookings[booking.RoomID], id)
	delete(r.bookings, id)

	return nil
}

func copyRoom(room *models.Room) *models.Room {
	c := *room
	if room.Amenities != nil {
		c.Amenities = append([]string(nil), room.Amenities...)
	}
	return &c
}

func sortBookings(bookings []*models.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].Start.Before(bookings[j].Start)
		}
		return bookings[i].ID < bookings[j].ID
	})
}
