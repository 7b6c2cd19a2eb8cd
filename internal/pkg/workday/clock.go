package workday

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time without a date, e.g. a shift start.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// FromDuration builds a TimeOfDay from an offset since midnight.
func FromDuration(d time.Duration) TimeOfDay {
	minutes := int(d / time.Minute)
	return TimeOfDay{Hour: minutes / 60, Minute: minutes % 60}
}

// Duration returns the offset since midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute
}

func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Duration() < u.Duration()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Calendar resolves "today" and calendar-day boundaries in one location.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Location: loc, Now: time.Now}
}

// Local converts t into the calendar's location.
func (c Calendar) Local(t time.Time) time.Time {
	return t.In(c.Location)
}

// Today returns midnight of the current date.
func (c Calendar) Today() time.Time {
	return DateOf(c.Now().In(c.Location))
}

// MonthBounds returns [first of month, first of next month) in the calendar's location.
func (c Calendar) MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, c.Location)
	return from, from.AddDate(0, 1, 0)
}
