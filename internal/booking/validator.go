// Package booking decides whether a proposed booking may be committed
package booking

import (
	"github.com/navikt/zbook/internal/interval"
	"github.com/navikt/zbook/internal/models"
)

// Validate checks candidate against the existing bookings of its room.
//
// It returns ErrInvalidRange, ErrInactiveRoom or a *ConflictError, checked in
// that order, or nil when the candidate is acceptable. Existing bookings with
// the candidate's ID are skipped so that an update never conflicts with the
// booking it replaces. Bookings for other rooms are ignored. Validate has no
// side effects; committing is left to the caller.
func Validate(candidate *models.Booking, existing []*models.Booking, roomActive bool) error {
	span := candidate.Interval()
	if !span.Valid() {
		return ErrInvalidRange
	}
	if !roomActive {
		return ErrInactiveRoom
	}

	var conflicts []string
	for _, b := range existing {
		if b == nil || b.RoomID != candidate.RoomID {
			continue
		}
		if candidate.ID != "" && b.ID == candidate.ID {
			continue
		}
		other := b.Interval()
		if !other.Valid() {
			continue
		}
		if interval.Overlaps(span, other) {
			conflicts = append(conflicts, b.ID)
		}
	}

	if len(conflicts) > 0 {
		return &ConflictError{BookingIDs: conflicts}
	}
	return nil
}
