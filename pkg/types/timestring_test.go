package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid morning", "09:30", false},
		{"valid midnight", "00:00", false},
		{"valid last minute", "23:59", false},
		{"out of range hour", "24:00", true},
		{"out of range minute", "10:60", true},
		{"with seconds", "10:30:00", true},
		{"empty", "", true},
		{"garbage", "morning", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeStringMinutesRoundTrip(t *testing.T) {
	tests := []struct {
		value   string
		minutes int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"12:30", 750},
		{"23:59", 1439},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			ts := TimeString(tt.value)

			minutes, err := ts.Minutes()
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, minutes)

			back, err := NewTimeStringFromMinutes(tt.minutes)
			require.NoError(t, err)
			assert.Equal(t, ts, back)
		})
	}
}

func TestNewTimeStringFromMinutesOutOfRange(t *testing.T) {
	_, err := NewTimeStringFromMinutes(-1)
	assert.Error(t, err)

	_, err = NewTimeStringFromMinutes(minutesPerDay)
	assert.Error(t, err)
}

func TestTimeStringAddMinutes(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		shift   int
		want    string
		wantErr bool
	}{
		{"forward within day", "09:00", 90, "10:30", false},
		{"backward within day", "09:00", -60, "08:00", false},
		{"zero shift", "09:00", 0, "09:00", false},
		{"exactly midnight", "23:00", 60, "", true},
		{"past midnight", "23:30", 60, "", true},
		{"before day start", "00:30", -60, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TimeString(tt.value).AddMinutes(tt.shift)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TimeString(tt.want), got)
		})
	}
}

func TestTimeStringComparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore(TimeString("10:00")))
	assert.False(t, TimeString("10:00").IsBefore(TimeString("10:00")))
	assert.True(t, TimeString("10:00").IsAfter(TimeString("09:59")))
	assert.False(t, TimeString("10:00").IsAfter(TimeString("10:00")))
}

func TestTimeStringIsZero(t *testing.T) {
	assert.True(t, TimeString("").IsZero())
	assert.False(t, TimeString("00:00").IsZero())
}

func TestTimeStringValue(t *testing.T) {
	v, err := TimeString("09:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "09:30", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("bad").Value()
	assert.Error(t, err)
}

func TestTimeStringScan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, TimeString("09:30"), ts)

	require.NoError(t, ts.Scan([]byte("14:05")))
	assert.Equal(t, TimeString("14:05"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 6, 2, 11, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("11:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
	assert.Error(t, ts.Scan("nonsense"))
}
