package api

import (
	"context"

	"github.com/navikt/zbook/internal/analytics"
	"github.com/navikt/zbook/internal/models"
)

// RoomServicer defines the room operations needed by API handlers
type RoomServicer interface {
	CreateRoom(ctx context.Context, room *models.Room) (*models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) (*models.Room, error)
	DeleteRoom(ctx context.Context, id string) error
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)

	// Derived data
	RoomStatuses(ctx context.Context) ([]models.RoomStatus, error)
	RoomStatus(ctx context.Context, id string) (models.RoomStatus, error)
	Analytics(ctx context.Context, q analytics.Query) (analytics.Result, error)
}

// BookingServicer defines the booking operations needed by API handlers
type BookingServicer interface {
	CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error)
	UpdateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, roomID string) ([]*models.Booking, error)
}
