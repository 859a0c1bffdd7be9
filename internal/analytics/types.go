package analytics

import (
	"time"

	"github.com/navikt/zbook/internal/models"
)

// HoursPerDay is the width of the peak-hour and heatmap buckets
const HoursPerDay = 24

// Query selects the data an aggregation runs over
type Query struct {
	// From and To are calendar days, both inclusive. The location of From is
	// the reference timezone for day and hour bucketing.
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	// RoomIDs restricts the rooms; empty means every active room
	RoomIDs []string `json:"room_ids,omitempty"`
	// WorkHours overrides every room's own work hours when set
	WorkHours *models.WorkHours `json:"work_hours,omitempty"`
}

// HourBucket is the booked time falling in one hour of the day
type HourBucket struct {
	Hour    int `json:"hour"`
	Minutes int `json:"minutes"`
}

// DayTrend is the booked time on one calendar day
type DayTrend struct {
	Date         time.Time `json:"date"`
	Minutes      int       `json:"minutes"`
	BookingCount int       `json:"booking_count"`
}

// RoomUsage is one row of the leaderboard
type RoomUsage struct {
	RoomID           string  `json:"room_id"`
	RoomName         string  `json:"room_name"`
	Minutes          int     `json:"minutes"`
	BookingCount     int     `json:"booking_count"`
	AvailableMinutes int     `json:"available_minutes"`
	Utilization      float64 `json:"utilization"`
}

// Heatmap holds booked minutes indexed by time.Weekday and hour of day
type Heatmap [7][HoursPerDay]int

// Result is the derived analytics for one Query
type Result struct {
	Days             int     `json:"days"`
	Rooms            int     `json:"rooms"`
	Bookings         int     `json:"bookings"`
	BookedMinutes    int     `json:"booked_minutes"`
	AvailableMinutes int     `json:"available_minutes"`
	Utilization      float64 `json:"utilization"`
	// PeakHours lists hours with booked time, busiest first
	PeakHours   []HourBucket `json:"peak_hours"`
	DailyTrend  []DayTrend   `json:"daily_trend"`
	Heatmap     Heatmap      `json:"heatmap"`
	Leaderboard []RoomUsage  `json:"leaderboard"`
}
