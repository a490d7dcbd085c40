package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmily/PM-ReservationService/pkg/types"
)

func ts(t *testing.T, value string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(value)
	require.NoError(t, err)
	return v
}

func weeklyEntry(t *testing.T, start, end, breakStart, breakEnd string, dayOff bool) *WeeklyScheduleEntry {
	t.Helper()
	e := &WeeklyScheduleEntry{
		BusinessID: 1,
		Day:        Monday,
		IsDayOff:   dayOff,
	}
	if start != "" {
		e.StartTime = ts(t, start)
		e.EndTime = ts(t, end)
	}
	if breakStart != "" {
		e.BreakStart = ts(t, breakStart)
		e.BreakEnd = ts(t, breakEnd)
	}
	return e
}

func TestResolveEffectiveDay(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	t.Run("weekly entry without break", func(t *testing.T) {
		day := ResolveEffectiveDay(weeklyEntry(t, "09:00", "18:00", "", "", false), nil)

		assert.True(t, day.IsOpen)
		assert.Equal(t, Interval{Start: 540, End: 1080}, day.Window)
		assert.Nil(t, day.Break)
		assert.Equal(t, []Interval{{540, 1080}}, day.FreeIntervals())
	})

	t.Run("weekly entry with break", func(t *testing.T) {
		day := ResolveEffectiveDay(weeklyEntry(t, "09:00", "18:00", "12:00", "13:00", false), nil)

		assert.True(t, day.IsOpen)
		require.NotNil(t, day.Break)
		assert.Equal(t, Interval{Start: 720, End: 780}, *day.Break)
		assert.Equal(t, []Interval{{540, 720}, {780, 1080}}, day.FreeIntervals())
	})

	t.Run("no weekly entry means closed", func(t *testing.T) {
		day := ResolveEffectiveDay(nil, nil)

		assert.False(t, day.IsOpen)
		assert.Nil(t, day.FreeIntervals())
	})

	t.Run("weekly day off", func(t *testing.T) {
		day := ResolveEffectiveDay(weeklyEntry(t, "", "", "", "", true), nil)

		assert.False(t, day.IsOpen)
	})

	t.Run("day off exception suppresses weekly entry", func(t *testing.T) {
		exception := &ExceptionDate{BusinessID: 1, Date: date, IsDayOff: true}
		day := ResolveEffectiveDay(weeklyEntry(t, "09:00", "18:00", "", "", false), exception)

		assert.False(t, day.IsOpen)
	})

	t.Run("hours exception replaces weekly window", func(t *testing.T) {
		exception := &ExceptionDate{
			BusinessID: 1,
			Date:       date,
			StartTime:  ts(t, "10:00"),
			EndTime:    ts(t, "14:00"),
		}
		day := ResolveEffectiveDay(weeklyEntry(t, "09:00", "18:00", "", "", false), exception)

		assert.True(t, day.IsOpen)
		assert.Equal(t, Interval{Start: 600, End: 840}, day.Window)
	})

	t.Run("weekly break survives when it fits the overridden window", func(t *testing.T) {
		exception := &ExceptionDate{
			BusinessID: 1,
			Date:       date,
			StartTime:  ts(t, "10:00"),
			EndTime:    ts(t, "16:00"),
		}
		day := ResolveEffectiveDay(weeklyEntry(t, "09:00", "18:00", "12:00", "13:00", false), exception)

		assert.True(t, day.IsOpen)
		require.NotNil(t, day.Break)
		assert.Equal(t, Interval{Start: 720, End: 780}, *day.Break)
	})

	t.Run("weekly break dropped when outside the overridden window", func(t *testing.T) {
		exception := &ExceptionDate{
			BusinessID: 1,
			Date:       date,
			StartTime:  ts(t, "13:00"),
			EndTime:    ts(t, "18:00"),
		}
		day := ResolveEffectiveDay(weeklyEntry(t, "09:00", "18:00", "12:00", "13:00", false), exception)

		assert.True(t, day.IsOpen)
		assert.Nil(t, day.Break)
	})

	t.Run("exception opens a weekly day off", func(t *testing.T) {
		exception := &ExceptionDate{
			BusinessID: 1,
			Date:       date,
			StartTime:  ts(t, "11:00"),
			EndTime:    ts(t, "15:00"),
		}
		day := ResolveEffectiveDay(weeklyEntry(t, "", "", "", "", true), exception)

		assert.True(t, day.IsOpen)
		assert.Equal(t, Interval{Start: 660, End: 900}, day.Window)
		assert.Nil(t, day.Break)
	})
}

func TestWeeklyScheduleEntryHasBreak(t *testing.T) {
	assert.True(t, weeklyEntry(t, "09:00", "18:00", "12:00", "13:00", false).HasBreak())
	assert.False(t, weeklyEntry(t, "09:00", "18:00", "", "", false).HasBreak())
}
