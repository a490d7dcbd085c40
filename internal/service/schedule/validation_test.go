package schedule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/internal/service/schedule/models"
	"github.com/petmily/PM-ReservationService/pkg/types"
)

func strPtr(s string) *string {
	return &s
}

func fullWeekInput() []models.DayScheduleInput {
	return []models.DayScheduleInput{
		{Day: "monday", StartTime: "09:00", EndTime: "18:00", BreakStart: strPtr("12:00"), BreakEnd: strPtr("13:00")},
		{Day: "tuesday", StartTime: "09:00", EndTime: "18:00"},
		{Day: "wednesday", StartTime: "09:00", EndTime: "18:00"},
		{Day: "thursday", StartTime: "09:00", EndTime: "18:00"},
		{Day: "friday", StartTime: "09:00", EndTime: "18:00"},
		{Day: "saturday", StartTime: "10:00", EndTime: "14:00"},
		{Day: "sunday", IsDayOff: true},
	}
}

func TestToDomainWeek(t *testing.T) {
	entries, err := toDomainWeek(1, fullWeekInput())

	require.NoError(t, err)
	require.Len(t, entries, domain.DaysPerWeek)

	monday := entries[0]
	assert.Equal(t, int64(1), monday.BusinessID)
	assert.Equal(t, domain.Monday, monday.Day)
	assert.Equal(t, types.TimeString("09:00"), monday.StartTime)
	assert.Equal(t, types.TimeString("18:00"), monday.EndTime)
	assert.True(t, monday.HasBreak())

	sunday := entries[6]
	assert.True(t, sunday.IsDayOff)
	assert.True(t, sunday.StartTime.IsZero())
}

func TestToDomainWeekFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]models.DayScheduleInput) []models.DayScheduleInput
	}{
		{
			"too few days",
			func(days []models.DayScheduleInput) []models.DayScheduleInput { return days[:6] },
		},
		{
			"unknown day name",
			func(days []models.DayScheduleInput) []models.DayScheduleInput {
				days[1].Day = "someday"
				return days
			},
		},
		{
			"duplicate day",
			func(days []models.DayScheduleInput) []models.DayScheduleInput {
				days[1].Day = "monday"
				return days
			},
		},
		{
			"inverted window",
			func(days []models.DayScheduleInput) []models.DayScheduleInput {
				days[2].StartTime = "18:00"
				days[2].EndTime = "09:00"
				return days
			},
		},
		{
			"invalid time format",
			func(days []models.DayScheduleInput) []models.DayScheduleInput {
				days[2].StartTime = "morning"
				return days
			},
		},
		{
			"break start without end",
			func(days []models.DayScheduleInput) []models.DayScheduleInput {
				days[3].BreakStart = strPtr("12:00")
				return days
			},
		},
		{
			"break outside working hours",
			func(days []models.DayScheduleInput) []models.DayScheduleInput {
				days[3].BreakStart = strPtr("08:00")
				days[3].BreakEnd = strPtr("10:00")
				return days
			},
		},
		{
			"working day without hours",
			func(days []models.DayScheduleInput) []models.DayScheduleInput {
				days[4].StartTime = ""
				days[4].EndTime = ""
				return days
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toDomainWeek(1, tt.mutate(fullWeekInput()))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestToDomainException(t *testing.T) {
	t.Run("working hours override", func(t *testing.T) {
		exception, err := toDomainException(&models.SetExceptionRequest{
			BusinessID: 1,
			Date:       "2025-10-15",
			StartTime:  "10:00",
			EndTime:    "14:00",
			Reason:     strPtr("сокращенный день"),
		})

		require.NoError(t, err)
		assert.Equal(t, "2025-10-15", exception.Date.Format(domain.DateFormat))
		assert.False(t, exception.IsDayOff)
		assert.Equal(t, types.TimeString("10:00"), exception.StartTime)
		assert.Equal(t, types.TimeString("14:00"), exception.EndTime)
	})

	t.Run("day off ignores times", func(t *testing.T) {
		exception, err := toDomainException(&models.SetExceptionRequest{
			BusinessID: 1,
			Date:       "2025-10-15",
			IsDayOff:   true,
		})

		require.NoError(t, err)
		assert.True(t, exception.IsDayOff)
		assert.True(t, exception.StartTime.IsZero())
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := toDomainException(&models.SetExceptionRequest{
			BusinessID: 1,
			Date:       "15.10.2025",
			IsDayOff:   true,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing window for working exception", func(t *testing.T) {
		_, err := toDomainException(&models.SetExceptionRequest{
			BusinessID: 1,
			Date:       "2025-10-15",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("reason too long", func(t *testing.T) {
		_, err := toDomainException(&models.SetExceptionRequest{
			BusinessID: 1,
			Date:       "2025-10-15",
			IsDayOff:   true,
			Reason:     strPtr(strings.Repeat("a", domain.MaxReasonLength+1)),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestToDomainExceptions(t *testing.T) {
	exceptions, err := toDomainExceptions(1, []models.ExceptionInput{
		{Date: "2025-10-15", IsDayOff: true},
		{Date: "2025-10-16", StartTime: "10:00", EndTime: "14:00"},
	})

	require.NoError(t, err)
	require.Len(t, exceptions, 2)
	assert.True(t, exceptions[0].IsDayOff)
	assert.Equal(t, int64(1), exceptions[1].BusinessID)

	_, err = toDomainExceptions(1, []models.ExceptionInput{
		{Date: "2025-10-15", IsDayOff: true},
		{Date: "bad-date", IsDayOff: true},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestToDomainTimeBlock(t *testing.T) {
	block, err := toDomainTimeBlock(&models.CreateTimeBlockRequest{
		BusinessID: 1,
		Date:       "2025-10-15",
		StartTime:  "14:00",
		EndTime:    "16:00",
		Reason:     "уборка",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), block.BusinessID)
	assert.Equal(t, types.TimeString("14:00"), block.StartTime)
	assert.Equal(t, types.TimeString("16:00"), block.EndTime)
	assert.Equal(t, "уборка", block.Reason)

	_, err = toDomainTimeBlock(&models.CreateTimeBlockRequest{
		BusinessID: 1,
		Date:       "2025-10-15",
		StartTime:  "16:00",
		EndTime:    "14:00",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseWindow(t *testing.T) {
	iv, err := parseWindow("09:00", "18:00")
	require.NoError(t, err)
	assert.Equal(t, domain.Interval{Start: 540, End: 1080}, iv)

	_, err = parseWindow("", "18:00")
	assert.Error(t, err)

	_, err = parseWindow("09:00", "09:00")
	assert.Error(t, err)
}
