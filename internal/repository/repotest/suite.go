// Package repotest holds the behaviour every repository implementation must share
package repotest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/navikt/zbook/internal/models"
	"github.com/navikt/zbook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty repository for one subtest
type Factory func(t *testing.T) repository.Repository

// Run exercises repo against the shared repository contract
func Run(t *testing.T, newRepo Factory) {
	t.Run("SaveAndGetRoom", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		room := Room("room1", "Fjorden")
		require.NoError(t, repo.SaveRoom(ctx, room))

		saved, err := repo.GetRoom(ctx, "room1")
		require.NoError(t, err)
		assert.Equal(t, room, saved)

		room.Name = "Fjorden 2"
		room.Active = false
		require.NoError(t, repo.SaveRoom(ctx, room))

		updated, err := repo.GetRoom(ctx, "room1")
		require.NoError(t, err)
		assert.Equal(t, "Fjorden 2", updated.Name)
		assert.False(t, updated.Active)
	})

	t.Run("GetMissingRoom", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetRoom(context.Background(), "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("ListRooms", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		rooms, err := repo.ListRooms(ctx)
		require.NoError(t, err)
		assert.Empty(t, rooms)

		require.NoError(t, repo.SaveRoom(ctx, Room("b", "Skogen")))
		require.NoError(t, repo.SaveRoom(ctx, Room("a", "Fjorden")))

		rooms, err = repo.ListRooms(ctx)
		require.NoError(t, err)
		require.Len(t, rooms, 2)
		assert.Equal(t, "a", rooms[0].ID)
		assert.Equal(t, "b", rooms[1].ID)
	})

	t.Run("SaveAndGetBooking", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.SaveRoom(ctx, Room("room1", "Fjorden")))

		booking := Booking("b1", "room1", 9, 10)
		require.NoError(t, repo.SaveBooking(ctx, booking))

		saved, err := repo.GetBooking(ctx, "b1")
		require.NoError(t, err)
		AssertSameBooking(t, booking, saved)
	})

	t.Run("BookingFarFromEpoch", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.SaveRoom(ctx, Room("room1", "Fjorden")))

		for _, year := range []int{1600, 2300} {
			id := fmt.Sprintf("b%d", year)
			booking := Booking(id, "room1", 9, 10)
			booking.Start = time.Date(year, 1, 1, 9, 0, 0, 0, time.UTC)
			booking.End = time.Date(year, 1, 1, 10, 0, 0, 0, time.UTC)
			require.NoError(t, repo.SaveBooking(ctx, booking))

			saved, err := repo.GetBooking(ctx, id)
			require.NoError(t, err)
			assert.True(t, booking.Start.Equal(saved.Start), "start %v != %v", booking.Start, saved.Start)
			assert.True(t, booking.End.Equal(saved.End), "end %v != %v", booking.End, saved.End)
		}
	})

	t.Run("GetMissingBooking", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetBooking(context.Background(), "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("ListBookingsForRoom", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.SaveRoom(ctx, Room("room1", "Fjorden")))
		require.NoError(t, repo.SaveRoom(ctx, Room("room2", "Skogen")))

		require.NoError(t, repo.SaveBooking(ctx, Booking("late", "room1", 14, 15)))
		require.NoError(t, repo.SaveBooking(ctx, Booking("early", "room1", 9, 10)))
		require.NoError(t, repo.SaveBooking(ctx, Booking("other", "room2", 9, 10)))

		bookings, err := repo.ListBookingsForRoom(ctx, "room1")
		require.NoError(t, err)
		require.Len(t, bookings, 2)
		assert.Equal(t, "early", bookings[0].ID)
		assert.Equal(t, "late", bookings[1].ID)

		all, err := repo.ListBookings(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		none, err := repo.ListBookingsForRoom(ctx, "room3")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("MoveBookingBetweenRooms", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.SaveRoom(ctx, Room("room1", "Fjorden")))
		require.NoError(t, repo.SaveRoom(ctx, Room("room2", "Skogen")))

		booking := Booking("b1", "room1", 9, 10)
		require.NoError(t, repo.SaveBooking(ctx, booking))

		booking.RoomID = "room2"
		require.NoError(t, repo.SaveBooking(ctx, booking))

		first, err := repo.ListBookingsForRoom(ctx, "room1")
		require.NoError(t, err)
		assert.Empty(t, first)

		second, err := repo.ListBookingsForRoom(ctx, "room2")
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "b1", second[0].ID)
	})

	t.Run("DeleteBooking", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.SaveRoom(ctx, Room("room1", "Fjorden")))
		require.NoError(t, repo.SaveBooking(ctx, Booking("b1", "room1", 9, 10)))

		require.NoError(t, repo.DeleteBooking(ctx, "b1"))

		_, err := repo.GetBooking(ctx, "b1")
		assert.ErrorIs(t, err, models.ErrNotFound)

		bookings, err := repo.ListBookingsForRoom(ctx, "room1")
		require.NoError(t, err)
		assert.Empty(t, bookings)

		assert.ErrorIs(t, repo.DeleteBooking(ctx, "b1"), models.ErrNotFound)
	})

	t.Run("DeleteRoomRemovesBookings", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.SaveRoom(ctx, Room("room1", "Fjorden")))
		require.NoError(t, repo.SaveRoom(ctx, Room("room2", "Skogen")))
		require.NoError(t, repo.SaveBooking(ctx, Booking("b1", "room1", 9, 10)))
		require.NoError(t, repo.SaveBooking(ctx, Booking("b2", "room2", 9, 10)))

		require.NoError(t, repo.DeleteRoom(ctx, "room1"))

		_, err := repo.GetRoom(ctx, "room1")
		assert.ErrorIs(t, err, models.ErrNotFound)
		_, err = repo.GetBooking(ctx, "b1")
		assert.ErrorIs(t, err, models.ErrNotFound)

		remaining, err := repo.ListBookings(ctx)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, "b2", remaining[0].ID)

		assert.ErrorIs(t, repo.DeleteRoom(ctx, "room1"), models.ErrNotFound)
	})
}

// Room returns an active room with default work hours
func Room(id, name string) *models.Room {
	return &models.Room{
		ID:        id,
		Name:      name,
		Location:  "2nd floor",
		Capacity:  8,
		WorkHours: models.DefaultWorkHours,
		Amenities: []string{"screen", "whiteboard"},
		Active:    true,
	}
}

// Booking returns a booking on 2025-05-12 between the given hours (UTC)
func Booking(id, roomID string, startHour, endHour int) *models.Booking {
	created := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.Booking{
		ID:        id,
		RoomID:    roomID,
		Title:     "Weekly sync",
		Start:     time.Date(2025, 5, 12, startHour, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 5, 12, endHour, 0, 0, 0, time.UTC),
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// AssertSameBooking compares bookings by value, ignoring time zone representation
func AssertSameBooking(t *testing.T, expected, actual *models.Booking) {
	t.Helper()
	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.RoomID, actual.RoomID)
	assert.Equal(t, expected.Title, actual.Title)
	assert.True(t, expected.Start.Equal(actual.Start), "start %v != %v", expected.Start, actual.Start)
	assert.True(t, expected.End.Equal(actual.End), "end %v != %v", expected.End, actual.End)
	assert.True(t, expected.CreatedAt.Equal(actual.CreatedAt), "created_at %v != %v", expected.CreatedAt, actual.CreatedAt)
	assert.True(t, expected.UpdatedAt.Equal(actual.UpdatedAt), "updated_at %v != %v", expected.UpdatedAt, actual.UpdatedAt)
}
