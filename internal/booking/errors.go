package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRange is returned when a booking does not start before it ends
	ErrInvalidRange = errors.New("booking: start must be before end")

	// ErrInactiveRoom is returned when a booking targets an inactive room
	ErrInactiveRoom = errors.New("booking: room is not active")

	// ErrConflict is matched by every ConflictError
	ErrConflict = errors.New("booking: overlaps an existing booking")
)

// ConflictError lists the existing bookings a candidate overlaps
type ConflictError struct {
	BookingIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %s", ErrConflict, strings.Join(e.BookingIDs, ", "))
}

// Unwrap lets errors.Is(err, ErrConflict) match
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
