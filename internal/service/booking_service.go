package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/navikt/zbook/internal/booking"
	"github.com/navikt/zbook/internal/models"
	"github.com/navikt/zbook/internal/utils"
)

// BookingService provides business logic for working with bookings
type BookingService struct {
	*core
}

// CreateBooking validates a new booking against its room and commits it
func (s *BookingService) CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	candidate := *b
	candidate.Title = strings.TrimSpace(candidate.Title)
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	if candidate.RoomID == "" {
		return nil, fmt.Errorf("%w: room_id is required", ErrInvalidBooking)
	}

	err := s.commit(func() ([]string, error) {
		if _, err := s.repo.GetBooking(ctx, candidate.ID); err == nil {
			return nil, fmt.Errorf("%w: booking %s", ErrAlreadyExists, candidate.ID)
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}

		if err := s.validate(ctx, &candidate); err != nil {
			return nil, err
		}

		now := s.opts.Clock.Now()
		candidate.CreatedAt = now
		candidate.UpdatedAt = now

		if err := s.repo.SaveBooking(ctx, &candidate); err != nil {
			log.Printf("Error saving booking %s: %v", utils.SanitizeLogString(candidate.ID), err)
			return nil, err
		}
		s.opts.Metrics.ObserveCommit("create")

		log.Printf("Booked room %s for %s", utils.SanitizeLogString(candidate.RoomID),
			utils.FormatRange(candidate.Start, candidate.End))
		return []string{candidate.RoomID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// UpdateBooking validates the changed booking, excluding its stored version,
// and commits it. Moving a booking validates against the new room.
func (s *BookingService) UpdateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	candidate := *b
	candidate.Title = strings.TrimSpace(candidate.Title)

	err := s.commit(func() ([]string, error) {
		previous, err := s.repo.GetBooking(ctx, candidate.ID)
		if err != nil {
			return nil, err
		}
		if candidate.RoomID == "" {
			candidate.RoomID = previous.RoomID
		}

		if err := s.validate(ctx, &candidate); err != nil {
			return nil, err
		}

		candidate.CreatedAt = previous.CreatedAt
		candidate.UpdatedAt = s.opts.Clock.Now()

		if err := s.repo.SaveBooking(ctx, &candidate); err != nil {
			log.Printf("Error updating booking %s: %v", utils.SanitizeLogString(candidate.ID), err)
			return nil, err
		}
		s.opts.Metrics.ObserveCommit("update")

		if previous.RoomID != candidate.RoomID {
			return []string{candidate.RoomID, previous.RoomID}, nil
		}
		return []string{candidate.RoomID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// DeleteBooking removes a booking
func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	return s.commit(func() ([]string, error) {
		existing, err := s.repo.GetBooking(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.repo.DeleteBooking(ctx, id); err != nil {
			return nil, err
		}
		s.opts.Metrics.ObserveCommit("delete")
		return []string{existing.RoomID}, nil
	})
}

// GetBooking returns one booking
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

// ListBookings returns the bookings sorted by start, limited to one room when
// roomID is set
func (s *BookingService) ListBookings(ctx context.Context, roomID string) ([]*models.Booking, error) {
	if roomID == "" {
		return s.repo.ListBookings(ctx)
	}
	if _, err := s.repo.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return s.repo.ListBookingsForRoom(ctx, roomID)
}

// validate runs the booking rules against the room's current bookings.
// The caller holds writeMu.
func (s *BookingService) validate(ctx context.Context, candidate *models.Booking) error {
	room, err := s.repo.GetRoom(ctx, candidate.RoomID)
	if err != nil {
		return err
	}

	existing, err := s.repo.ListBookingsForRoom(ctx, room.ID)
	if err != nil {
		return err
	}

	err = booking.Validate(candidate, existing, room.Active)
	s.opts.Metrics.ObserveValidation(err)
	if err != nil {
		log.Printf("Rejected booking for room %s: %v", utils.SanitizeLogString(room.ID), err)
	}
	return err
}
