package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekDayFromTime(t *testing.T) {
	tests := []struct {
		in   time.Weekday
		want WeekDay
	}{
		{time.Monday, Monday},
		{time.Wednesday, Wednesday},
		{time.Saturday, Saturday},
		{time.Sunday, Sunday},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, WeekDayFromTime(tt.in))
		})
	}
}

func TestWeekDayOfDate(t *testing.T) {
	// 2025-06-02 is a Monday, 2025-06-08 is a Sunday
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, Monday, WeekDayOfDate(monday))
	assert.Equal(t, Sunday, WeekDayOfDate(sunday))
}

func TestParseWeekDay(t *testing.T) {
	for i, name := range weekDayNames {
		day, err := ParseWeekDay(name)
		require.NoError(t, err)
		assert.Equal(t, WeekDay(i), day)
		assert.Equal(t, name, day.String())
	}

	_, err := ParseWeekDay("Monday")
	assert.Error(t, err)

	_, err = ParseWeekDay("someday")
	assert.Error(t, err)
}

func TestWeekDayIsValid(t *testing.T) {
	assert.True(t, Monday.IsValid())
	assert.True(t, Sunday.IsValid())
	assert.False(t, WeekDay(-1).IsValid())
	assert.False(t, WeekDay(7).IsValid())
}
