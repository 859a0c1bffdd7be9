package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/navikt/zbook/internal/analytics"
	"github.com/navikt/zbook/internal/booking"
	"github.com/navikt/zbook/internal/metrics"
	"github.com/navikt/zbook/internal/models"
	"github.com/navikt/zbook/internal/repository/memory"
	"github.com/navikt/zbook/internal/service"
	"github.com/navikt/zbook/internal/status"
)

// MockUpdateCallback is a mock for testing callbacks
type MockUpdateCallback struct {
	mock.Mock
}

func (m *MockUpdateCallback) OnUpdate(roomID string) {
	m.Called(roomID)
}

var now = time.Date(2025, 5, 12, 14, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2025, 5, 12, hour, minute, 0, 0, time.UTC)
}

func setup(t *testing.T) (*service.Services, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	svc := service.New(repo, service.Options{
		Clock:   status.FixedClock(now),
		Metrics: metrics.New(prometheus.NewRegistry()),
	})
	return svc, repo
}

func createRoom(t *testing.T, svc *service.Services, name string) *models.Room {
	t.Helper()
	room, err := svc.Rooms.CreateRoom(context.Background(), &models.Room{
		Name:     name,
		Location: "3rd floor",
		Capacity: 6,
		Active:   true,
	})
	require.NoError(t, err)
	return room
}

func TestCreateRoom_Defaults(t *testing.T) {
	svc, _ := setup(t)

	room := createRoom(t, svc, "  Fjorden ")
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "Fjorden", room.Name)
	assert.Equal(t, models.DefaultWorkHours, room.WorkHours)

	stored, err := svc.Rooms.GetRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, room, stored)
}

func TestCreateRoom_Invalid(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	cases := map[string]*models.Room{
		"no name":     {Location: "x", Capacity: 1},
		"no location": {Name: "x", Capacity: 1},
		"no capacity": {Name: "x", Location: "x"},
		"bad hours":   {Name: "x", Location: "x", Capacity: 1, WorkHours: models.WorkHours{Start: 600, End: 540}},
	}
	for name, room := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Rooms.CreateRoom(ctx, room)
			assert.ErrorIs(t, err, service.ErrInvalidRoom)
		})
	}
}

func TestCreateRoom_DuplicateID(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	room := &models.Room{ID: "r1", Name: "Fjorden", Location: "x", Capacity: 2, Active: true}
	_, err := svc.Rooms.CreateRoom(ctx, room)
	require.NoError(t, err)

	_, err = svc.Rooms.CreateRoom(ctx, room)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)
}

func TestUpdateRoom_Missing(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.Rooms.UpdateRoom(context.Background(), &models.Room{ID: "nope", Name: "x", Location: "x", Capacity: 1})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListRooms_SortedByName(t *testing.T) {
	svc, _ := setup(t)
	createRoom(t, svc, "Skogen")
	createRoom(t, svc, "Fjorden")
	createRoom(t, svc, "Havet")

	rooms, err := svc.Rooms.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, "Fjorden", rooms[0].Name)
	assert.Equal(t, "Havet", rooms[1].Name)
	assert.Equal(t, "Skogen", rooms[2].Name)
}

func TestCreateBooking(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	room := createRoom(t, svc, "Fjorden")

	created, err := svc.Bookings.CreateBooking(ctx, &models.Booking{
		RoomID: room.ID, Title: "Standup", Start: at(9, 0), End: at(10, 0),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, now, created.UpdatedAt)

	bookings, err := svc.Bookings.ListBookings(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, created.ID, bookings[0].ID)
}

func TestCreateBooking_Rejections(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	room := createRoom(t, svc, "Fjorden")

	existing, err := svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(10, 30), End: at(11, 30)})
	require.NoError(t, err)

	_, err = svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(10, 0), End: at(11, 0)})
	var conflict *booking.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{existing.ID}, conflict.BookingIDs)

	_, err = svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(12, 0), End: at(12, 0)})
	assert.ErrorIs(t, err, booking.ErrInvalidRange)

	_, err = svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: "missing", Start: at(12, 0), End: at(13, 0)})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Bookings.CreateBooking(ctx, &models.Booking{Start: at(12, 0), End: at(13, 0)})
	assert.ErrorIs(t, err, service.ErrInvalidBooking)

	room.Active = false
	_, err = svc.Rooms.UpdateRoom(ctx, room)
	require.NoError(t, err)
	_, err = svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(15, 0), End: at(16, 0)})
	assert.ErrorIs(t, err, booking.ErrInactiveRoom)
}

func TestCreateBooking_TouchingIsAccepted(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	room := createRoom(t, svc, "Fjorden")

	_, err := svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(9, 0), End: at(10, 0)})
	require.NoError(t, err)
	_, err = svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(10, 0), End: at(11, 0)})
	assert.NoError(t, err)
}

func TestUpdateBooking_SelfExclusion(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	room := createRoom(t, svc, "Fjorden")

	created, err := svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Title: "A", Start: at(9, 0), End: at(10, 0)})
	require.NoError(t, err)

	created.Title = "B"
	updated, err := svc.Bookings.UpdateBooking(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	created.End = at(10, 30)
	_, err = svc.Bookings.UpdateBooking(ctx, created)
	assert.NoError(t, err, "extending over its own old interval is allowed")
}

func TestUpdateBooking_MoveValidatesNewRoom(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	a := createRoom(t, svc, "Fjorden")
	b := createRoom(t, svc, "Havet")

	moving, err := svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: a.ID, Start: at(9, 0), End: at(10, 0)})
	require.NoError(t, err)
	blocker, err := svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: b.ID, Start: at(9, 30), End: at(10, 30)})
	require.NoError(t, err)

	moving.RoomID = b.ID
	_, err = svc.Bookings.UpdateBooking(ctx, moving)
	var conflict *booking.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{blocker.ID}, conflict.BookingIDs)

	moving.Start, moving.End = at(11, 0), at(12, 0)
	_, err = svc.Bookings.UpdateBooking(ctx, moving)
	require.NoError(t, err)

	inA, err := svc.Bookings.ListBookings(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, inA)
}

func TestDeleteBookingAndRoom(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	room := createRoom(t, svc, "Fjorden")

	b1, err := svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(9, 0), End: at(10, 0)})
	require.NoError(t, err)
	_, err = svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(11, 0), End: at(12, 0)})
	require.NoError(t, err)

	require.NoError(t, svc.Bookings.DeleteBooking(ctx, b1.ID))
	assert.ErrorIs(t, svc.Bookings.DeleteBooking(ctx, b1.ID), models.ErrNotFound)

	require.NoError(t, svc.Rooms.DeleteRoom(ctx, room.ID))
	all, err := svc.Bookings.ListBookings(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateCallbacks(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	cb := new(MockUpdateCallback)
	cb.On("OnUpdate", mock.AnythingOfType("string")).Return()
	svc.RegisterUpdateCallback(cb.OnUpdate)

	room := createRoom(t, svc, "Fjorden")
	b, err := svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(9, 0), End: at(10, 0)})
	require.NoError(t, err)
	require.NoError(t, svc.Bookings.DeleteBooking(ctx, b.ID))

	// Rejected bookings do not notify
	_, err = svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(9, 0), End: at(8, 0)})
	require.Error(t, err)

	cb.AssertNumberOfCalls(t, "OnUpdate", 3)
	cb.AssertCalled(t, "OnUpdate", room.ID)
}

func TestUpdateCallbackMayWriteThroughServices(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	room := createRoom(t, svc, "Fjorden")

	var fired atomic.Bool
	followUp := make(chan error, 1)
	svc.RegisterUpdateCallback(func(roomID string) {
		if !fired.CompareAndSwap(false, true) {
			return
		}
		_, err := svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: roomID, Start: at(11, 0), End: at(12, 0)})
		followUp <- err
	})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(9, 0), End: at(10, 0)})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("write from an update callback blocked the committing call")
	}
	require.NoError(t, <-followUp)

	bookings, err := svc.Bookings.ListBookings(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestRoomStatuses(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	busy := createRoom(t, svc, "Busy room")
	free := createRoom(t, svc, "Free room")

	_, err := svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: busy.ID, Start: at(13, 0), End: at(15, 0)})
	require.NoError(t, err)
	_, err = svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: busy.ID, Start: at(15, 0), End: at(16, 0)})
	require.NoError(t, err)

	statuses, err := svc.Rooms.RoomStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, busy.ID, statuses[0].RoomID)
	assert.Equal(t, models.RoomStateBusy, statuses[0].State)
	require.NotNil(t, statuses[0].NextChange)
	assert.Equal(t, at(16, 0), *statuses[0].NextChange)

	assert.Equal(t, free.ID, statuses[1].RoomID)
	assert.Equal(t, models.RoomStateAvailable, statuses[1].State)

	single, err := svc.Rooms.RoomStatus(ctx, free.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStateAvailable, single.State)

	_, err = svc.Rooms.RoomStatus(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAnalytics(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	room := createRoom(t, svc, "Fjorden")

	_, err := svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(9, 0), End: at(10, 0)})
	require.NoError(t, err)

	result, err := svc.Rooms.Analytics(ctx, analytics.Query{
		From:    at(0, 0),
		To:      at(0, 0),
		RoomIDs: []string{room.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 60, result.BookedMinutes)
	assert.Equal(t, 720, result.AvailableMinutes)
	assert.InDelta(t, 60.0/720.0, result.Utilization, 1e-9)
}

func TestConcurrentCreateCommitsOnlyOne(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	room := createRoom(t, svc, "Fjorden")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Bookings.CreateBooking(ctx, &models.Booking{RoomID: room.ID, Start: at(9, 0), End: at(10, 0)})
		}()
	}
	wg.Wait()

	bookings, err := repo.ListBookingsForRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}
