package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmily/PM-ReservationService/pkg/types"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from ReservationStatus
		to   ReservationStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCanceled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCanceled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCanceled, StatusPending, false},
		{StatusCanceled, StatusConfirmed, false},
		{StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
}

func TestParseReservationStatus(t *testing.T) {
	for _, s := range []ReservationStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled} {
		parsed, err := ParseReservationStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseReservationStatus("Pending")
	assert.Error(t, err)

	_, err = ParseReservationStatus("unknown")
	assert.Error(t, err)
}

func TestReservationIsActive(t *testing.T) {
	r := &Reservation{Status: StatusPending}
	assert.True(t, r.IsActive())

	r.Status = StatusCompleted
	assert.True(t, r.IsActive())

	r.Status = StatusCanceled
	assert.False(t, r.IsActive())
}

func TestReservationCanBeCancelled(t *testing.T) {
	assert.True(t, (&Reservation{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Reservation{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Reservation{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Reservation{Status: StatusCanceled}).CanBeCancelled())
}

func TestReservationInterval(t *testing.T) {
	r := &Reservation{StartTime: ts(t, "10:00"), EndTime: ts(t, "11:30")}

	iv, err := r.Interval()
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 600, End: 690}, iv)

	r.EndTime = types.TimeString("")
	_, err = r.Interval()
	assert.Error(t, err)
}
