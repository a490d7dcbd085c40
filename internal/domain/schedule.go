package domain

import (
	"time"

	"github.com/petmily/PM-ReservationService/pkg/types"
)

// WeeklyScheduleEntry is one day of a business's recurring weekly template.
// A business has exactly one entry per weekday; the full week is always
// written atomically.
type WeeklyScheduleEntry struct {
	BusinessID int64
	Day        WeekDay
	StartTime  types.TimeString
	EndTime    types.TimeString
	BreakStart types.TimeString // zero if the day has no break
	BreakEnd   types.TimeString
	IsDayOff   bool
	UpdatedAt  time.Time
}

// HasBreak returns true if the entry defines a break interval
func (e *WeeklyScheduleEntry) HasBreak() bool {
	return !e.BreakStart.IsZero() && !e.BreakEnd.IsZero()
}

// ExceptionDate overrides the weekly template for one exact date.
// IsDayOff suppresses the weekly entry entirely; otherwise the given working
// window replaces the weekly one for that date.
type ExceptionDate struct {
	BusinessID int64
	Date       time.Time
	StartTime  types.TimeString // zero when IsDayOff
	EndTime    types.TimeString
	IsDayOff   bool
	Reason     *string
	UpdatedAt  time.Time
}

// EffectiveDay is a day's open hours after applying any exception override to
// the weekly template: the working window, minus an optional break.
type EffectiveDay struct {
	IsOpen bool
	Window Interval
	Break  *Interval // nil when the day has no break
}

// FreeIntervals returns the working window with the break carved out:
// zero (closed), one, or two free sub-intervals in ascending order.
func (d EffectiveDay) FreeIntervals() []Interval {
	if !d.IsOpen {
		return nil
	}
	if d.Break == nil {
		return []Interval{d.Window}
	}
	return SubtractIntervals([]Interval{d.Window}, []Interval{*d.Break})
}

// ResolveEffectiveDay merges the weekly entry with an optional exception for
// that date. The exception wins when present; no weekly entry means closed.
// A weekly break survives an hours-only exception if it still fits entirely
// inside the overridden window.
func ResolveEffectiveDay(weekly *WeeklyScheduleEntry, exception *ExceptionDate) EffectiveDay {
	if exception != nil {
		if exception.IsDayOff {
			return EffectiveDay{IsOpen: false}
		}
		window, ok := intervalFromTimes(exception.StartTime, exception.EndTime)
		if !ok {
			return EffectiveDay{IsOpen: false}
		}
		day := EffectiveDay{IsOpen: true, Window: window}
		if weekly != nil && weekly.HasBreak() {
			if br, ok := intervalFromTimes(weekly.BreakStart, weekly.BreakEnd); ok && window.Contains(br) {
				day.Break = &br
			}
		}
		return day
	}

	if weekly == nil || weekly.IsDayOff {
		return EffectiveDay{IsOpen: false}
	}

	window, ok := intervalFromTimes(weekly.StartTime, weekly.EndTime)
	if !ok {
		return EffectiveDay{IsOpen: false}
	}

	day := EffectiveDay{IsOpen: true, Window: window}
	if weekly.HasBreak() {
		if br, ok := intervalFromTimes(weekly.BreakStart, weekly.BreakEnd); ok {
			day.Break = &br
		}
	}
	return day
}

// intervalFromTimes builds a minute interval from two HH:MM strings
func intervalFromTimes(start, end types.TimeString) (Interval, bool) {
	if start.IsZero() || end.IsZero() {
		return Interval{}, false
	}
	startMin, err := start.Minutes()
	if err != nil {
		return Interval{}, false
	}
	endMin, err := end.Minutes()
	if err != nil {
		return Interval{}, false
	}
	iv := Interval{Start: startMin, End: endMin}
	if !iv.IsValid() {
		return Interval{}, false
	}
	return iv, true
}

// DaySummary is the cheap per-day view used by monthly schedule queries.
// The exact slot grid is computed lazily only when a single day is queried.
type DaySummary struct {
	Date             time.Time
	IsDayOff         bool
	IsFullyBlocked   bool // working window exists but is entirely occupied
	HasReservations  bool
	ReservationCount int
	BlockCount       int
}
