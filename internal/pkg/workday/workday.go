// Package workday holds the fixed workday model used by leave durations and
// timesheet reconciliation: a 08:30-17:30 day worth 9 hours.
package workday

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	// DayStart and DayEnd bound a default working day.
	DayStart = TimeOfDay{Hour: 8, Minute: 30}
	DayEnd   = TimeOfDay{Hour: 17, Minute: 30}

	// FullDayHours is what a whole leave day is worth.
	FullDayHours = decimal.NewFromInt(9)

	// HalfDayThreshold is the largest same-day leave that keeps the intern present.
	HalfDayThreshold = decimal.RequireFromString("4.5")

	// LeaveDayHours converts leave hours into leave days and marks a day absent
	// when a day's cumulative leave reaches it.
	LeaveDayHours = decimal.NewFromInt(8)
)

const dateLayout = "2006-01-02"

// DateOf truncates t to midnight in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey formats the calendar date of t. Two instants with the same key fall
// on the same calendar day regardless of how they were stored.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// SameDate reports whether a and b share a calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween counts calendar days from a's date to b's date. It is negative
// when b falls before a and is immune to DST shifts.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// HoursBetween returns the elapsed hours from a to b rounded to two places.
func HoursBetween(a, b time.Time) decimal.Decimal {
	seconds := int64(b.Sub(a) / time.Second)
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600)).Round(2)
}

// FirstDayHours is the leave worth of the day a multi-day leave starts on:
// the hours left until the end of the workday, capped at a full day.
func FirstDayHours(start time.Time) decimal.Decimal {
	y, m, d := start.Date()
	end := time.Date(y, m, d, DayEnd.Hour, DayEnd.Minute, 0, 0, start.Location())
	hours := HoursBetween(start, end)
	if hours.LessThanOrEqual(decimal.Zero) || hours.GreaterThan(FullDayHours) {
		return FullDayHours
	}
	return hours
}

// Duration computes the days and hours a leave from start to end is worth.
//
// A same-day leave counts its raw elapsed hours and zero days. A multi-day
// leave counts FirstDayHours for the first day and a full day for every day
// after it; the end date is the return-to-work day and is not counted.
func Duration(start, end time.Time) (days int, hours decimal.Decimal) {
	if end.Before(start) {
		return 0, decimal.Zero
	}
	if SameDate(start, end) {
		return 0, HoursBetween(start, end)
	}

	days = DaysBetween(start, end)
	if days < 0 {
		return 0, decimal.Zero
	}
	hours = FirstDayHours(start).Add(FullDayHours.Mul(decimal.NewFromInt(int64(days - 1))))
	return days, hours
}

// LeaveHoursOn is the share of a leave from start to end that falls on day.
func LeaveHoursOn(start, end, day time.Time) decimal.Decimal {
	if SameDate(start, end) {
		if SameDate(start, day) {
			return HoursBetween(start, end)
		}
		return decimal.Zero
	}

	offset := DaysBetween(start, day)
	if offset < 0 || offset >= DaysBetween(start, end) {
		return decimal.Zero
	}
	if offset == 0 {
		return FirstDayHours(start)
	}
	return FullDayHours
}

// LeaveDays converts leave hours on one day to whole leave days.
func LeaveDays(hours decimal.Decimal) int {
	if hours.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return int(hours.Div(LeaveDayHours).Ceil().IntPart())
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// MonthDays returns every calendar day of the given month, in order.
func MonthDays(year int, month time.Month, loc *time.Location) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	var days []time.Time
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DatesInRange returns each calendar date in [start.Date, end.Date).
func DatesInRange(start, end time.Time) []time.Time {
	var dates []time.Time
	last := DateOf(end)
	for d := DateOf(start); d.Before(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
