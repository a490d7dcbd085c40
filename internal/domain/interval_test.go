package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalIsValid(t *testing.T) {
	tests := []struct {
		name     string
		interval Interval
		want     bool
	}{
		{"normal interval", Interval{Start: 540, End: 1080}, true},
		{"full day", Interval{Start: 0, End: MinutesPerDay}, true},
		{"zero length", Interval{Start: 600, End: 600}, false},
		{"inverted", Interval{Start: 700, End: 600}, false},
		{"negative start", Interval{Start: -10, End: 60}, false},
		{"past midnight", Interval{Start: 1400, End: MinutesPerDay + 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.interval.IsValid())
		})
	}
}

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", Interval{540, 600}, Interval{660, 720}, false},
		{"touching boundaries", Interval{540, 600}, Interval{600, 660}, false},
		{"partial overlap", Interval{540, 620}, Interval{600, 660}, true},
		{"contained", Interval{540, 720}, Interval{600, 660}, true},
		{"identical", Interval{540, 600}, Interval{540, 600}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name  string
		input []Interval
		want  []Interval
	}{
		{"empty", nil, nil},
		{"single", []Interval{{540, 600}}, []Interval{{540, 600}}},
		{
			"overlapping pair",
			[]Interval{{540, 620}, {600, 660}},
			[]Interval{{540, 660}},
		},
		{
			"touching pair coalesced",
			[]Interval{{540, 600}, {600, 660}},
			[]Interval{{540, 660}},
		},
		{
			"unsorted disjoint",
			[]Interval{{720, 780}, {540, 600}},
			[]Interval{{540, 600}, {720, 780}},
		},
		{
			"nested",
			[]Interval{{540, 720}, {600, 660}},
			[]Interval{{540, 720}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeIntervals(tt.input))
		})
	}
}

func TestSubtractIntervals(t *testing.T) {
	tests := []struct {
		name     string
		free     []Interval
		occupied []Interval
		want     []Interval
	}{
		{
			"no occupied returns free",
			[]Interval{{540, 1080}},
			nil,
			[]Interval{{540, 1080}},
		},
		{
			"occupied splits free",
			[]Interval{{540, 1080}},
			[]Interval{{600, 660}},
			[]Interval{{540, 600}, {660, 1080}},
		},
		{
			"occupied at the start",
			[]Interval{{540, 1080}},
			[]Interval{{540, 600}},
			[]Interval{{600, 1080}},
		},
		{
			"occupied covers everything",
			[]Interval{{540, 1080}},
			[]Interval{{500, 1100}},
			[]Interval{},
		},
		{
			"overlapping occupied subtracted once",
			[]Interval{{540, 1080}},
			[]Interval{{600, 700}, {650, 720}},
			[]Interval{{540, 600}, {720, 1080}},
		},
		{
			"occupied outside free ignored",
			[]Interval{{540, 600}},
			[]Interval{{700, 800}},
			[]Interval{{540, 600}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubtractIntervals(tt.free, tt.occupied))
		})
	}
}

func TestSlotStarts(t *testing.T) {
	tests := []struct {
		name     string
		free     Interval
		duration int
		want     []int
	}{
		{"exact fit", Interval{540, 660}, 60, []int{540, 600}},
		{"remainder dropped", Interval{540, 650}, 60, []int{540}},
		{"too short", Interval{540, 580}, 60, []int{}},
		{"zero duration", Interval{540, 660}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlotStarts(tt.free, tt.duration))
		})
	}
}

func TestTotalDuration(t *testing.T) {
	assert.Equal(t, 0, TotalDuration(nil))
	assert.Equal(t, 180, TotalDuration([]Interval{{540, 600}, {660, 780}}))
}

// Понедельник 09:00-18:00 с перерывом 12:00-13:00, услуга 60 минут,
// бронирование 10:00-11:00: свободные начала 09:00, 11:00 и 13:00-17:00.
func TestAvailabilityScenario(t *testing.T) {
	window := Interval{Start: 9 * 60, End: 18 * 60}
	breakIv := Interval{Start: 12 * 60, End: 13 * 60}
	reservation := Interval{Start: 10 * 60, End: 11 * 60}

	free := SubtractIntervals([]Interval{window}, []Interval{breakIv, reservation})
	require.Equal(t, []Interval{
		{Start: 9 * 60, End: 10 * 60},
		{Start: 11 * 60, End: 12 * 60},
		{Start: 13 * 60, End: 18 * 60},
	}, free)

	starts := make([]int, 0)
	for _, iv := range free {
		starts = append(starts, SlotStarts(iv, 60)...)
	}
	assert.Equal(t, []int{
		9 * 60,
		11 * 60,
		13 * 60, 14 * 60, 15 * 60, 16 * 60, 17 * 60,
	}, starts)
}
