package shared

import "time"

// BusinessCalendar maps instants onto business days in a fixed location.
// A business day is the half-open window [00:00, next 00:00).
type BusinessCalendar struct {
	loc *time.Location
}

// NewBusinessCalendar creates a calendar for loc, defaulting to UTC
func NewBusinessCalendar(loc *time.Location) BusinessCalendar {
	if loc == nil {
		loc = time.UTC
	}
	return BusinessCalendar{loc: loc}
}

// Location returns the calendar's time zone
func (c BusinessCalendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// StartOfDay returns midnight of the business day containing t
func (c BusinessCalendar) StartOfDay(t time.Time) time.Time {
	lt := t.In(c.Location())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, c.Location())
}

// DayWindow returns [start, end) of the business day containing t
func (c BusinessCalendar) DayWindow(t time.Time) (time.Time, time.Time) {
	start := c.StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// RangeWindow returns [start of from's day, start of the day after to)
func (c BusinessCalendar) RangeWindow(from, to time.Time) (time.Time, time.Time) {
	start := c.StartOfDay(from)
	_, end := c.DayWindow(to)
	return start, end
}

// ParseDate parses a YYYY-MM-DD string as a business day
func (c BusinessCalendar) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, c.Location())
}
