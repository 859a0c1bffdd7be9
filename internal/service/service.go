// Package service holds the business logic on top of the repository
package service

import (
	"errors"
	"sync"

	"github.com/navikt/zbook/internal/metrics"
	"github.com/navikt/zbook/internal/models"
	"github.com/navikt/zbook/internal/repository"
	"github.com/navikt/zbook/internal/status"
)

var (
	// ErrInvalidRoom is returned when a room fails validation
	ErrInvalidRoom = errors.New("service: invalid room")

	// ErrInvalidBooking is returned when a booking is missing required fields
	ErrInvalidBooking = errors.New("service: invalid booking")

	// ErrAlreadyExists is returned when creating an entity with a taken ID
	ErrAlreadyExists = errors.New("service: entity already exists")
)

// UpdateCallback is called with the ID of a room whose rooms or bookings changed
type UpdateCallback func(roomID string)

// Options configures the services
type Options struct {
	Clock            status.Clock
	Metrics          *metrics.Metrics
	DefaultWorkHours models.WorkHours
}

// Services bundles the room and booking services sharing one write lock
type Services struct {
	Rooms    *RoomService
	Bookings *BookingService
}

// New creates the services for repo
func New(repo repository.Repository, opts Options) *Services {
	if opts.Clock == nil {
		opts.Clock = status.SystemClock{}
	}
	if opts.DefaultWorkHours.IsZero() {
		opts.DefaultWorkHours = models.DefaultWorkHours
	}

	shared := &core{
		repo:    repo,
		opts:    opts,
		writeMu: &sync.Mutex{},
	}

	return &Services{
		Rooms:    &RoomService{core: shared},
		Bookings: &BookingService{core: shared},
	}
}

// RegisterUpdateCallback registers a callback for every committed change
func (s *Services) RegisterUpdateCallback(callback UpdateCallback) {
	s.Rooms.RegisterUpdateCallback(callback)
}

// core is the state shared by both services
type core struct {
	repo repository.Repository
	opts Options

	// writeMu serialises validate-then-commit so one process never commits
	// two overlapping bookings
	writeMu *sync.Mutex

	callbackMu      sync.RWMutex
	updateCallbacks []UpdateCallback
}

// RegisterUpdateCallback registers a callback function to be called when data changes
func (c *core) RegisterUpdateCallback(callback UpdateCallback) {
	c.callbackMu.Lock()
	defer c.callbackMu.Unlock()
	c.updateCallbacks = append(c.updateCallbacks, callback)
}

// commit runs fn while holding writeMu and then notifies the rooms fn
// returns. Callbacks run after the lock is released, so they may read or
// write through the services.
func (c *core) commit(fn func() ([]string, error)) error {
	rooms, err := c.underWriteLock(fn)
	if err != nil {
		return err
	}
	for _, roomID := range rooms {
		c.notifyUpdate(roomID)
	}
	return nil
}

func (c *core) underWriteLock(fn func() ([]string, error)) ([]string, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return fn()
}

// notifyUpdate calls all registered callbacks with the affected room
func (c *core) notifyUpdate(roomID string) {
	c.callbackMu.RLock()
	callbacks := append([]UpdateCallback(nil), c.updateCallbacks...)
	c.callbackMu.RUnlock()

	for _, callback := range callbacks {
		callback(roomID)
	}
}
