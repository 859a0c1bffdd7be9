package models

import (
	"time"

	"github.com/navikt/zbook/internal/interval"
)

// Booking reserves a room for the half-open interval [Start, End)
type Booking struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Interval returns the booked time range
func (b *Booking) Interval() interval.Interval {
	return interval.New(b.Start, b.End)
}

// Duration returns the booked length in minutes
func (b *Booking) Duration() int {
	return interval.DurationMinutes(b.Interval())
}
