// Package interval provides primitive operations on half-open time ranges
package interval

import "time"

// Interval is a half-open time range [Start, End)
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New returns the interval [start, end)
func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Valid reports whether the interval has a positive length
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Empty reports whether the interval contains no instant
func (i Interval) Empty() bool {
	return !i.Valid()
}

// Contains reports whether t lies inside [Start, End)
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration returns the length of the interval, never negative
func (i Interval) Duration() time.Duration {
	if !i.Valid() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Overlaps returns true if a and b share at least one instant.
// Two ranges [s1, e1) and [s2, e2) overlap if s1 < e2 AND s2 < e1, so
// touching boundaries do not overlap. Callers must reject invalid
// intervals before calling.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Clip returns the intersection of iv with window. The second return value
// is false when they are disjoint.
func Clip(iv, window Interval) (Interval, bool) {
	start := iv.Start
	if window.Start.After(start) {
		start = window.Start
	}
	end := iv.End
	if window.End.Before(end) {
		end = window.End
	}

	if !start.Before(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// DurationMinutes returns the whole minutes in iv, truncated
func DurationMinutes(iv Interval) int {
	return int(iv.Duration() / time.Minute)
}
