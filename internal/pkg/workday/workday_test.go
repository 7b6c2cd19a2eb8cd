package workday

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDuration(t *testing.T) {
	cases := []struct {
		name      string
		start     string
		end       string
		wantDays  int
		wantHours string
	}{
		{"same day", "2024-03-01T09:00", "2024-03-01T14:00", 0, "5"},
		{"same day not clamped", "2024-03-01T06:00", "2024-03-01T20:00", 0, "14"},
		{"three nights", "2024-03-01T10:00", "2024-03-04T10:00", 3, "25.5"},
		{"overnight", "2024-03-01T13:30", "2024-03-02T08:30", 1, "4"},
		{"start after workday", "2024-03-01T18:00", "2024-03-03T08:30", 2, "18"},
		{"start before workday", "2024-03-01T07:00", "2024-03-02T08:30", 1, "9"},
		{"end before start", "2024-03-02T09:00", "2024-03-01T09:00", 0, "0"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			days, hours := Duration(at(c.start), at(c.end))
			assert.Equal(t, c.wantDays, days)
			assert.True(t, decimal.RequireFromString(c.wantHours).Equal(hours), "hours = %s", hours)
		})
	}
}

func TestLeaveHoursOn(t *testing.T) {
	start, end := at("2024-03-01T10:00"), at("2024-03-04T10:00")

	assert.Equal(t, "7.5", LeaveHoursOn(start, end, at("2024-03-01T00:00")).String())
	assert.Equal(t, "9", LeaveHoursOn(start, end, at("2024-03-02T00:00")).String())
	assert.Equal(t, "9", LeaveHoursOn(start, end, at("2024-03-03T00:00")).String())
	assert.True(t, LeaveHoursOn(start, end, at("2024-03-04T00:00")).IsZero(), "end date is excluded")
	assert.True(t, LeaveHoursOn(start, end, at("2024-02-29T00:00")).IsZero())

	sameDayStart, sameDayEnd := at("2024-03-05T09:00"), at("2024-03-05T13:30")
	assert.Equal(t, "4.5", LeaveHoursOn(sameDayStart, sameDayEnd, at("2024-03-05T00:00")).String())
	assert.True(t, LeaveHoursOn(sameDayStart, sameDayEnd, at("2024-03-06T00:00")).IsZero())
}

func TestHoursBetween_HalfDayBoundary(t *testing.T) {
	start := at("2024-03-01T09:00")

	exact := HoursBetween(start, start.Add(4*time.Hour+30*time.Minute))
	assert.True(t, exact.LessThanOrEqual(HalfDayThreshold))

	over := HoursBetween(start, start.Add(4*time.Hour+30*time.Minute+36*time.Second))
	assert.Equal(t, "4.51", over.String())
	assert.True(t, over.GreaterThan(HalfDayThreshold))
}

func TestLeaveDays(t *testing.T) {
	cases := []struct {
		hours string
		want  int
	}{
		{"0", 0},
		{"2", 1},
		{"8", 1},
		{"9", 2},
		{"16", 2},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LeaveDays(decimal.RequireFromString(c.hours)), "hours %s", c.hours)
	}
}

func TestMonthDays(t *testing.T) {
	feb := MonthDays(2024, time.February, time.UTC)
	require.Len(t, feb, 29)
	assert.Equal(t, 1, feb[0].Day())
	assert.Equal(t, 29, feb[28].Day())

	seen := map[string]bool{}
	for _, d := range MonthDays(2024, time.March, time.UTC) {
		key := DateKey(d)
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
	}
	assert.Len(t, seen, 31)
}

func TestDatesInRange(t *testing.T) {
	dates := DatesInRange(at("2024-01-30T10:00"), at("2024-02-02T10:00"))
	require.Len(t, dates, 3)
	assert.Equal(t, "2024-01-30", DateKey(dates[0]))
	assert.Equal(t, "2024-02-01", DateKey(dates[2]))
}

func TestOverlaps(t *testing.T) {
	a1, a2 := at("2024-03-01T09:00"), at("2024-03-01T12:00")

	assert.True(t, Overlaps(a1, a2, at("2024-03-01T11:00"), at("2024-03-01T13:00")))
	assert.False(t, Overlaps(a1, a2, a2, at("2024-03-01T13:00")), "touching intervals do not overlap")
	assert.False(t, Overlaps(a1, a2, at("2024-03-01T07:00"), a1))
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, DayStart, tod)
	assert.Equal(t, "08:30", tod.String())
	assert.True(t, DayStart.Before(DayEnd))
	assert.Equal(t, DayEnd, FromDuration(DayEnd.Duration()))

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}
