package domain

import (
	"fmt"
	"time"
)

// WeekDay is the canonical day-of-week enumeration for the whole system,
// Monday-first. Conversion from time.Weekday (Sunday-first) happens only at
// system boundaries; internal logic never carries two index conventions.
type WeekDay int

const (
	Monday WeekDay = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekDayNames = [DaysPerWeek]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// WeekDayFromTime converts a time.Weekday into the canonical enumeration
func WeekDayFromTime(wd time.Weekday) WeekDay {
	if wd == time.Sunday {
		return Sunday
	}
	return WeekDay(int(wd) - 1)
}

// WeekDayOfDate returns the canonical weekday for a date
func WeekDayOfDate(date time.Time) WeekDay {
	return WeekDayFromTime(date.Weekday())
}

// ParseWeekDay parses a lowercase weekday name
func ParseWeekDay(s string) (WeekDay, error) {
	for i, name := range weekDayNames {
		if name == s {
			return WeekDay(i), nil
		}
	}
	return 0, fmt.Errorf("domain: unknown weekday %q", s)
}

// IsValid returns true if the value is one of the seven canonical days
func (d WeekDay) IsValid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the lowercase weekday name
func (d WeekDay) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekDayNames[d]
}
