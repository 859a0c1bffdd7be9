// Package analytics aggregates bookings into utilization statistics
package analytics

import (
	"sort"
	"time"

	"github.com/navikt/zbook/internal/interval"
	"github.com/navikt/zbook/internal/models"
)

// roomPlan is a selected room together with the window it is clipped to
type roomPlan struct {
	room      *models.Room
	workHours models.WorkHours
}

// segment is the part of one booking on one calendar day, clipped to work hours
type segment struct {
	room    int
	day     int
	clipped interval.Interval
	booked  bool
}

// Aggregate computes utilization, peak hours, daily trend, heatmap and
// leaderboard for the bookings in q. Every metric is derived from a single
// set of per-day clipped segments. Aggregate never fails: empty or
// unmatched filters yield zero values.
func Aggregate(rooms []*models.Room, bookings []*models.Booking, q Query) Result {
	days := q.days()
	plans, index := selectRooms(rooms, q)

	result := Result{
		Days:        len(days),
		Rooms:       len(plans),
		PeakHours:   []HourBucket{},
		DailyTrend:  make([]DayTrend, len(days)),
		Leaderboard: make([]RoomUsage, len(plans)),
	}
	for i, day := range days {
		result.DailyTrend[i].Date = day
	}
	for i, p := range plans {
		available := availableMinutes(p.workHours, days)
		result.Leaderboard[i] = RoomUsage{
			RoomID:           p.room.ID,
			RoomName:         p.room.Name,
			AvailableMinutes: available,
		}
		result.AvailableMinutes += available
	}

	if len(days) > 0 && len(plans) > 0 {
		segments, perRoom := clipBookings(plans, index, bookings, days)
		for i, n := range perRoom {
			result.Leaderboard[i].BookingCount = n
			result.Bookings += n
		}
		accumulate(&result, segments, days)
	}

	result.Utilization = ratio(result.BookedMinutes, result.AvailableMinutes)
	for i := range result.Leaderboard {
		row := &result.Leaderboard[i]
		row.Utilization = ratio(row.Minutes, row.AvailableMinutes)
	}
	sort.SliceStable(result.Leaderboard, func(i, j int) bool {
		a, b := result.Leaderboard[i], result.Leaderboard[j]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		if a.RoomName != b.RoomName {
			return a.RoomName < b.RoomName
		}
		return a.RoomID < b.RoomID
	})

	return result
}

// days lists the midnights of every calendar day in the query
func (q Query) days() []time.Time {
	if q.From.IsZero() || q.To.IsZero() {
		return nil
	}
	loc := q.From.Location()
	first := midnight(q.From)
	last := midnight(q.To.In(loc))

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// availableMinutes sums the real length of the work-hours window on each
// day, so days with a clock shift count the minutes that actually exist
func availableMinutes(wh models.WorkHours, days []time.Time) int {
	if !wh.Valid() {
		return 0
	}
	total := 0
	for _, day := range days {
		total += interval.DurationMinutes(wh.Window(day))
	}
	return total
}

// selectRooms returns the active rooms matching the filter and an id index
func selectRooms(rooms []*models.Room, q Query) ([]roomPlan, map[string]int) {
	wanted := make(map[string]bool, len(q.RoomIDs))
	for _, id := range q.RoomIDs {
		wanted[id] = true
	}

	var plans []roomPlan
	index := make(map[string]int)
	for _, r := range rooms {
		if r == nil || !r.Active {
			continue
		}
		if len(wanted) > 0 && !wanted[r.ID] {
			continue
		}
		if _, dup := index[r.ID]; dup {
			continue
		}

		wh := r.EffectiveWorkHours()
		if q.WorkHours != nil {
			wh = *q.WorkHours
		}
		index[r.ID] = len(plans)
		plans = append(plans, roomPlan{room: r, workHours: wh})
	}
	return plans, index
}

// clipBookings splits every qualifying booking per calendar day and clips
// each piece to its room's work hours. It also returns how many bookings
// qualified per room.
func clipBookings(plans []roomPlan, index map[string]int, bookings []*models.Booking, days []time.Time) ([]segment, []int) {
	loc := days[0].Location()
	rangeEnd := days[len(days)-1].AddDate(0, 0, 1)
	window := interval.New(days[0], rangeEnd)
	dayEnd := func(d int) time.Time {
		if d+1 < len(days) {
			return days[d+1]
		}
		return rangeEnd
	}

	var segments []segment
	counted := make([]int, len(plans))
	for _, b := range bookings {
		if b == nil {
			continue
		}
		roomIdx, ok := index[b.RoomID]
		if !ok {
			continue
		}
		span := interval.New(b.Start.In(loc), b.End.In(loc))
		if !span.Valid() || !interval.Overlaps(span, window) {
			continue
		}
		counted[roomIdx]++

		wh := plans[roomIdx].workHours
		first := sort.Search(len(days), func(d int) bool {
			return dayEnd(d).After(span.Start)
		})
		for d := first; d < len(days) && days[d].Before(span.End); d++ {
			clipped, booked := interval.Clip(span, wh.Window(days[d]))
			segments = append(segments, segment{
				room:    roomIdx,
				day:     d,
				clipped: clipped,
				booked:  booked,
			})
		}
	}
	return segments, counted
}

// accumulate folds the clipped segments into every metric in one pass
func accumulate(result *Result, segments []segment, days []time.Time) {
	var byHour [HoursPerDay]time.Duration
	var heat [7][HoursPerDay]time.Duration

	for _, s := range segments {
		trend := &result.DailyTrend[s.day]
		// A booking contributes one segment per day, so this counts bookings.
		trend.BookingCount++
		row := &result.Leaderboard[s.room]

		if !s.booked {
			continue
		}

		minutes := interval.DurationMinutes(s.clipped)
		trend.Minutes += minutes
		row.Minutes += minutes
		result.BookedMinutes += minutes

		weekday := days[s.day].Weekday()
		forEachHour(s.clipped, func(hour int, d time.Duration) {
			byHour[hour] += d
			heat[weekday][hour] += d
		})
	}

	for hour, d := range byHour {
		if minutes := int(d / time.Minute); minutes > 0 {
			result.PeakHours = append(result.PeakHours, HourBucket{Hour: hour, Minutes: minutes})
		}
	}
	sort.SliceStable(result.PeakHours, func(i, j int) bool {
		a, b := result.PeakHours[i], result.PeakHours[j]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		return a.Hour < b.Hour
	})

	for weekday := range heat {
		for hour, d := range heat[weekday] {
			result.Heatmap[weekday][hour] = int(d / time.Minute)
		}
	}
}

// forEachHour splits iv at hour boundaries and reports each piece
func forEachHour(iv interval.Interval, fn func(hour int, d time.Duration)) {
	for t := iv.Start; t.Before(iv.End); {
		y, m, d := t.Date()
		next := time.Date(y, m, d, t.Hour()+1, 0, 0, 0, t.Location())
		if !next.After(t) {
			next = t.Add(time.Hour)
		}
		if next.After(iv.End) {
			next = iv.End
		}
		fn(t.Hour(), next.Sub(t))
		t = next
	}
}

func ratio(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
