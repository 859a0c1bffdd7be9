// Package repository defines interfaces for data storage
package repository

import (
	"context"

	"github.com/navikt/zbook/internal/models"
)

// Repository defines the interface for storing and retrieving rooms and bookings.
// Stores keep what they are given; booking validation happens before commit.
type Repository interface {
	// Room operations
	SaveRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	DeleteRoom(ctx context.Context, id string) error

	// Booking operations
	SaveBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	ListBookingsForRoom(ctx context.Context, roomID string) ([]*models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}
