package models

import (
	"fmt"
	"time"
)

// RoomState is the derived occupancy of a room
type RoomState int

const (
	RoomStateAvailable RoomState = iota
	RoomStateBusy
	RoomStateUnavailable
)

// String returns the string representation of a room state
func (s RoomState) String() string {
	switch s {
	case RoomStateAvailable:
		return "available"
	case RoomStateBusy:
		return "busy"
	case RoomStateUnavailable:
		return "unavailable"
	}
	return fmt.Sprintf("RoomState(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s RoomState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *RoomState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "available":
		*s = RoomStateAvailable
	case "busy":
		*s = RoomStateBusy
	case "unavailable":
		*s = RoomStateUnavailable
	default:
		return fmt.Errorf("unknown room state %q", text)
	}
	return nil
}

// RoomStatus represents the current status of a room for display purposes
type RoomStatus struct {
	RoomID   string    `json:"room_id"`
	RoomName string    `json:"room_name"`
	State    RoomState `json:"state"`
	// Current is the booking covering the evaluation instant, if any
	Current *Booking `json:"current,omitempty"`
	// Next is the soonest booking starting after the evaluation instant
	Next *Booking `json:"next,omitempty"`
	// NextChange is when State will next differ; nil if it never will
	NextChange *time.Time `json:"next_change,omitempty"`
}
