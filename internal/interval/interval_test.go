package interval_test

import (
	"testing"
	"time"

	"github.com/navikt/zbook/internal/interval"
	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 5, 12, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     interval.Interval
		expected bool
	}{
		{"touching boundary", interval.New(at(9, 0), at(10, 0)), interval.New(at(10, 0), at(11, 0)), false},
		{"touching boundary reversed", interval.New(at(10, 0), at(11, 0)), interval.New(at(9, 0), at(10, 0)), false},
		{"disjoint", interval.New(at(8, 0), at(9, 0)), interval.New(at(10, 0), at(11, 0)), false},
		{"partial overlap", interval.New(at(10, 0), at(11, 0)), interval.New(at(10, 30), at(11, 30)), true},
		{"contained", interval.New(at(9, 0), at(12, 0)), interval.New(at(10, 0), at(11, 0)), true},
		{"identical", interval.New(at(9, 0), at(10, 0)), interval.New(at(9, 0), at(10, 0)), true},
		{"one minute overlap", interval.New(at(9, 0), at(10, 1)), interval.New(at(10, 0), at(11, 0)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, interval.Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.expected, interval.Overlaps(tt.b, tt.a), "overlap must be symmetric")
		})
	}
}

func TestClip(t *testing.T) {
	workHours := interval.New(at(8, 0), at(20, 0))

	t.Run("starts before window", func(t *testing.T) {
		clipped, ok := interval.Clip(interval.New(at(7, 0), at(9, 0)), workHours)
		assert.True(t, ok)
		assert.Equal(t, at(8, 0), clipped.Start)
		assert.Equal(t, at(9, 0), clipped.End)
		assert.Equal(t, 60, interval.DurationMinutes(clipped))
	})

	t.Run("ends after window", func(t *testing.T) {
		clipped, ok := interval.Clip(interval.New(at(19, 0), at(22, 0)), workHours)
		assert.True(t, ok)
		assert.Equal(t, 60, interval.DurationMinutes(clipped))
	})

	t.Run("inside window", func(t *testing.T) {
		iv := interval.New(at(9, 0), at(10, 0))
		clipped, ok := interval.Clip(iv, workHours)
		assert.True(t, ok)
		assert.Equal(t, iv, clipped)
	})

	t.Run("disjoint", func(t *testing.T) {
		_, ok := interval.Clip(interval.New(at(6, 0), at(8, 0)), workHours)
		assert.False(t, ok, "interval ending exactly at window start is disjoint")
	})
}

func TestDurationMinutes(t *testing.T) {
	assert.Equal(t, 90, interval.DurationMinutes(interval.New(at(9, 0), at(10, 30))))
	assert.Equal(t, 0, interval.DurationMinutes(interval.New(at(10, 0), at(9, 0))), "inverted interval has no duration")

	truncated := interval.New(at(9, 0), at(9, 0).Add(89*time.Second))
	assert.Equal(t, 1, interval.DurationMinutes(truncated))
}

func TestContains(t *testing.T) {
	iv := interval.New(at(13, 0), at(15, 0))
	assert.True(t, iv.Contains(at(13, 0)))
	assert.True(t, iv.Contains(at(14, 0)))
	assert.False(t, iv.Contains(at(15, 0)))
	assert.False(t, iv.Contains(at(12, 59)))
}
