package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/zbook/internal/analytics"
	"github.com/navikt/zbook/internal/models"
	"github.com/navikt/zbook/internal/status"
	"github.com/navikt/zbook/internal/utils"
)

// RoomService provides business logic for working with rooms
type RoomService struct {
	*core
}

// CreateRoom validates and stores a new room. An empty ID gets a UUID and
// zero work hours get the configured default.
func (s *RoomService) CreateRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	r := *room
	r.Name = strings.TrimSpace(r.Name)
	r.Location = strings.TrimSpace(r.Location)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.WorkHours.IsZero() {
		r.WorkHours = s.opts.DefaultWorkHours
	}
	if err := validateRoom(&r); err != nil {
		return nil, err
	}

	err := s.commit(func() ([]string, error) {
		if _, err := s.repo.GetRoom(ctx, r.ID); err == nil {
			return nil, fmt.Errorf("%w: room %s", ErrAlreadyExists, r.ID)
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}

		if err := s.repo.SaveRoom(ctx, &r); err != nil {
			log.Printf("Error saving room %s: %v", utils.SanitizeLogString(r.ID), err)
			return nil, err
		}

		log.Printf("Created room %s (%s)", utils.SanitizeLogString(r.ID), utils.SanitizeLogString(r.Name))
		return []string{r.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRoom replaces an existing room
func (s *RoomService) UpdateRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	r := *room
	r.Name = strings.TrimSpace(r.Name)
	r.Location = strings.TrimSpace(r.Location)
	if r.WorkHours.IsZero() {
		r.WorkHours = s.opts.DefaultWorkHours
	}
	if err := validateRoom(&r); err != nil {
		return nil, err
	}

	err := s.commit(func() ([]string, error) {
		if _, err := s.repo.GetRoom(ctx, r.ID); err != nil {
			return nil, err
		}
		if err := s.repo.SaveRoom(ctx, &r); err != nil {
			log.Printf("Error updating room %s: %v", utils.SanitizeLogString(r.ID), err)
			return nil, err
		}
		return []string{r.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRoom removes a room together with its bookings
func (s *RoomService) DeleteRoom(ctx context.Context, id string) error {
	return s.commit(func() ([]string, error) {
		if err := s.repo.DeleteRoom(ctx, id); err != nil {
			return nil, err
		}
		log.Printf("Deleted room %s", utils.SanitizeLogString(id))
		return []string{id}, nil
	})
}

// GetRoom returns one room
func (s *RoomService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	return s.repo.GetRoom(ctx, id)
}

// ListRooms returns all rooms sorted by name
func (s *RoomService) ListRooms(ctx context.Context) ([]*models.Room, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	sortRoomsByName(rooms)
	return rooms, nil
}

// RoomStatuses derives the current status of every room, sorted by room name
func (s *RoomService) RoomStatuses(ctx context.Context) ([]models.RoomStatus, error) {
	rooms, err := s.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	return status.DeriveAll(rooms, bookings, s.opts.Clock.Now()), nil
}

// RoomStatus derives the current status of one room
func (s *RoomService) RoomStatus(ctx context.Context, id string) (models.RoomStatus, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return models.RoomStatus{}, err
	}
	bookings, err := s.repo.ListBookingsForRoom(ctx, id)
	if err != nil {
		return models.RoomStatus{}, err
	}
	return status.Derive(room, bookings, s.opts.Clock.Now()), nil
}

// Analytics aggregates utilization over a snapshot of the store
func (s *RoomService) Analytics(ctx context.Context, q analytics.Query) (analytics.Result, error) {
	start := time.Now()
	defer s.opts.Metrics.ObserveAggregation(start)

	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return analytics.Result{}, err
	}
	bookings, err := s.repo.ListBookings(ctx)
	if err != nil {
		return analytics.Result{}, err
	}
	return analytics.Aggregate(rooms, bookings, q), nil
}

func validateRoom(r *models.Room) error {
	switch {
	case r.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidRoom)
	case r.Location == "":
		return fmt.Errorf("%w: location is required", ErrInvalidRoom)
	case r.Capacity < 1:
		return fmt.Errorf("%w: capacity must be at least 1", ErrInvalidRoom)
	case !r.WorkHours.Valid():
		return fmt.Errorf("%w: work hours %s are not a valid window", ErrInvalidRoom, r.WorkHours)
	}
	return nil
}

func sortRoomsByName(rooms []*models.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].Name != rooms[j].Name {
			return rooms[i].Name < rooms[j].Name
		}
		return rooms[i].ID < rooms[j].ID
	})
}
