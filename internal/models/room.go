package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/navikt/zbook/internal/interval"
)

// ErrNotFound is returned by every store when a requested entity is not found
var ErrNotFound = errors.New("entity not found")

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time expressed as minutes after midnight
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM". "24:00" is accepted as the end of the day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if hour < 0 || minute < 0 || minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// String formats the time as "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalText implements encoding.TextMarshaler
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// WorkHours is a room's daily bookable window [Start, End)
type WorkHours struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// DefaultWorkHours is used for rooms that do not declare their own window
var DefaultWorkHours = WorkHours{Start: 8 * 60, End: 20 * 60}

// ParseWorkHours parses "HH:MM-HH:MM"
func ParseWorkHours(s string) (WorkHours, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return WorkHours{}, fmt.Errorf("invalid work hours %q", s)
	}
	start, err := ParseTimeOfDay(parts[0])
	if err != nil {
		return WorkHours{}, err
	}
	end, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return WorkHours{}, err
	}
	wh := WorkHours{Start: start, End: end}
	if !wh.Valid() {
		return WorkHours{}, fmt.Errorf("invalid work hours %q: start must be before end", s)
	}
	return wh, nil
}

// String formats the window as "HH:MM-HH:MM"
func (w WorkHours) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// IsZero reports whether no window was declared
func (w WorkHours) IsZero() bool {
	return w.Start == 0 && w.End == 0
}

// Valid reports whether the window is non-empty and within one day
func (w WorkHours) Valid() bool {
	return w.Start >= 0 && w.End <= minutesPerDay && w.Start < w.End
}

// OrDefault returns DefaultWorkHours for an undeclared window
func (w WorkHours) OrDefault() WorkHours {
	if w.IsZero() {
		return DefaultWorkHours
	}
	return w
}

// Minutes returns the number of bookable minutes per day
func (w WorkHours) Minutes() int {
	if !w.Valid() {
		return 0
	}
	return int(w.End - w.Start)
}

// Window returns the absolute work-hours interval on the calendar day of day,
// in day's location
func (w WorkHours) Window(day time.Time) interval.Interval {
	y, m, d := day.Date()
	loc := day.Location()
	return interval.New(
		time.Date(y, m, d, 0, int(w.Start), 0, 0, loc),
		time.Date(y, m, d, 0, int(w.End), 0, 0, loc),
	)
}

// Room represents a physical meeting room
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Capacity  int       `json:"capacity"`
	WorkHours WorkHours `json:"work_hours"`
	Amenities []string  `json:"amenities,omitempty"`
	Active    bool      `json:"active"`
}

// EffectiveWorkHours returns the declared work hours or the default window
func (r *Room) EffectiveWorkHours() WorkHours {
	return r.WorkHours.OrDefault()
}

// HasAmenity reports whether the room offers the named amenity
func (r *Room) HasAmenity(name string) bool {
	for _, a := range r.Amenities {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}
