package domain

import (
	"fmt"
	"time"
)

// Day is the calendar-day key that deduplicates attendance, formatted
// YYYY-MM-DD in the facility time zone.
type Day string

const dayLayout = "2006-01-02"

// DayOf derives the day key for a timestamp in the given location.
func DayOf(t time.Time, loc *time.Location) Day {
	return Day(t.In(loc).Format(dayLayout))
}

// ParseDay validates a YYYY-MM-DD string from an external caller.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", ErrInvalidDay.WithError(fmt.Errorf("parse day %q: %w", s, err))
	}
	return Day(s), nil
}

func (d Day) String() string {
	return string(d)
}
