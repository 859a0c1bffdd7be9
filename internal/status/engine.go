// Package status derives a room's occupancy from its bookings
package status

import (
	"sort"
	"time"

	"github.com/navikt/zbook/internal/models"
)

// Derive computes the status of room at now. It is a pure function of its
// arguments: bookings for other rooms and bookings with start >= end are
// ignored, and the inputs are never modified.
//
// While busy, NextChange is the first instant not covered by any booking, so
// back-to-back bookings keep the room busy across their shared boundary.
func Derive(room *models.Room, bookings []*models.Booking, now time.Time) models.RoomStatus {
	status := models.RoomStatus{
		RoomID:   room.ID,
		RoomName: room.Name,
	}

	if !room.Active {
		status.State = models.RoomStateUnavailable
		return status
	}

	own := roomBookings(room.ID, bookings)

	var current *models.Booking
	for _, b := range own {
		if !b.Interval().Contains(now) {
			continue
		}
		// Overlaps should have been rejected on commit; prefer the latest end.
		if current == nil || b.End.After(current.End) {
			current = b
		}
	}

	next := firstStartingAfter(own, now)
	if next != nil {
		status.Next = copyBooking(next)
	}

	if current == nil {
		status.State = models.RoomStateAvailable
		if next != nil {
			change := next.Start
			status.NextChange = &change
		}
		return status
	}

	status.State = models.RoomStateBusy
	status.Current = copyBooking(current)

	freeAt := current.End
	for _, b := range own {
		if b.Start.After(freeAt) {
			break
		}
		if b.End.After(freeAt) {
			freeAt = b.End
		}
	}
	status.NextChange = &freeAt

	return status
}

// DeriveAll computes the status of every room at now, in the order given
func DeriveAll(rooms []*models.Room, bookings []*models.Booking, now time.Time) []models.RoomStatus {
	byRoom := make(map[string][]*models.Booking, len(rooms))
	for _, b := range bookings {
		if b == nil {
			continue
		}
		byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
	}

	result := make([]models.RoomStatus, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, Derive(r, byRoom[r.ID], now))
	}
	return result
}

// roomBookings returns the valid bookings of roomID sorted by start
func roomBookings(roomID string, bookings []*models.Booking) []*models.Booking {
	own := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || b.RoomID != roomID || !b.Interval().Valid() {
			continue
		}
		own = append(own, b)
	}
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].Start.Before(own[j].Start)
	})
	return own
}

func firstStartingAfter(sorted []*models.Booking, now time.Time) *models.Booking {
	for _, b := range sorted {
		if b.Start.After(now) {
			return b
		}
	}
	return nil
}

func copyBooking(b *models.Booking) *models.Booking {
	c := *b
	return &c
}
