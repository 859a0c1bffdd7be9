package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/navikt/zbook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input    string
		expected models.TimeOfDay
		wantErr  bool
	}{
		{"08:00", 480, false},
		{"8:30", 510, false},
		{"00:00", 0, false},
		{"24:00", 1440, false},
		{"23:59", 1439, false},
		{"24:01", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := models.ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWorkHours(t *testing.T) {
	wh, err := models.ParseWorkHours("08:00-20:00")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWorkHours, wh)
	assert.Equal(t, 720, wh.Minutes())
	assert.Equal(t, "08:00-20:00", wh.String())

	_, err = models.ParseWorkHours("20:00-08:00")
	assert.Error(t, err, "start must be before end")

	assert.Equal(t, models.DefaultWorkHours, models.WorkHours{}.OrDefault())
	assert.Equal(t, 0, models.WorkHours{Start: 600, End: 600}.Minutes())
}

func TestWorkHoursWindow(t *testing.T) {
	day := time.Date(2025, 5, 12, 15, 42, 0, 0, time.UTC)

	window := models.DefaultWorkHours.Window(day)
	assert.Equal(t, time.Date(2025, 5, 12, 8, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, 5, 12, 20, 0, 0, 0, time.UTC), window.End)

	allDay := models.WorkHours{Start: 0, End: 24 * 60}.Window(day)
	assert.Equal(t, time.Date(2025, 5, 13, 0, 0, 0, 0, time.UTC), allDay.End)
}

func TestRoomJSON(t *testing.T) {
	r := models.Room{
		ID:        "room123",
		Name:      "Meeting Room A",
		Location:  "3rd Floor",
		Capacity:  10,
		WorkHours: models.WorkHours{Start: 9 * 60, End: 17 * 60},
		Amenities: []string{"projector", "whiteboard"},
		Active:    true,
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"work_hours":{"start":"09:00","end":"17:00"}`)

	var decoded models.Room
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r, decoded)

	assert.True(t, decoded.HasAmenity("Projector"))
	assert.False(t, decoded.HasAmenity("video"))
}

func TestBookingDuration(t *testing.T) {
	b := models.Booking{
		ID:     "b1",
		RoomID: "room123",
		Start:  time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC),
	}
	assert.Equal(t, 90, b.Duration())
	assert.True(t, b.Interval().Valid())
}

func TestRoomState(t *testing.T) {
	states := []models.RoomState{
		models.RoomStateAvailable,
		models.RoomStateBusy,
		models.RoomStateUnavailable,
	}

	expectedStrings := []string{
		"available",
		"busy",
		"unavailable",
	}

	for i, state := range states {
		assert.Equal(t, expectedStrings[i], state.String())

		var parsed models.RoomState
		require.NoError(t, parsed.UnmarshalText([]byte(expectedStrings[i])))
		assert.Equal(t, state, parsed)
	}

	var bad models.RoomState
	assert.Error(t, bad.UnmarshalText([]byte("closed")))
}
