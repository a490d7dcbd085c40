package domain

import "sort"

// MinutesPerDay number of minutes in a day
const MinutesPerDay = 24 * 60

// Interval is a half-open time interval [Start, End) in minutes since midnight.
// All ledger occupancy and availability math is done on this representation;
// conversion to "HH:MM" strings happens only at the edges.
type Interval struct {
	Start int
	End   int
}

// IsValid returns true if the interval is well-formed and fits within a day
func (i Interval) IsValid() bool {
	return 0 <= i.Start && i.Start < i.End && i.End <= MinutesPerDay
}

// Duration returns the interval length in minutes
func (i Interval) Duration() int {
	return i.End - i.Start
}

// Overlaps returns true if the two intervals actually share time.
// Touching boundaries (one ends exactly where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains returns true if other lies entirely within i
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

// MergeIntervals returns the union of the given intervals as a sorted,
// pairwise-disjoint list. Overlapping and touching intervals are coalesced,
// so the result can be subtracted without double-counting overlap.
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].Start != sorted[b].Start {
			return sorted[a].Start < sorted[b].Start
		}
		return sorted[a].End < sorted[b].End
	})

	merged := make([]Interval, 0, len(sorted))
	current := sorted[0]

	for _, iv := range sorted[1:] {
		if iv.Start <= current.End {
			if iv.End > current.End {
				current.End = iv.End
			}
			continue
		}
		merged = append(merged, current)
		current = iv
	}
	merged = append(merged, current)

	return merged
}

// SubtractIntervals removes the occupied set from the free set and returns the
// remaining free sub-intervals in ascending order. The occupied list is merged
// internally, so overlapping occupied intervals are subtracted exactly once.
func SubtractIntervals(free []Interval, occupied []Interval) []Interval {
	if len(free) == 0 {
		return nil
	}
	if len(occupied) == 0 {
		result := make([]Interval, len(free))
		copy(result, free)
		return result
	}

	mergedOccupied := MergeIntervals(occupied)

	result := make([]Interval, 0, len(free))
	for _, f := range free {
		cursor := f.Start
		for _, o := range mergedOccupied {
			if o.End <= cursor || o.Start >= f.End {
				continue
			}
			if o.Start > cursor {
				result = append(result, Interval{Start: cursor, End: o.Start})
			}
			if o.End > cursor {
				cursor = o.End
			}
		}
		if cursor < f.End {
			result = append(result, Interval{Start: cursor, End: f.End})
		}
	}

	return result
}

// SlotStarts discretizes a free interval into fixed-size slots of the given
// duration, starting at the interval start and stepping by the duration.
// Only slots that fit entirely within the interval are returned; a duration
// longer than the interval yields no slots.
func SlotStarts(free Interval, durationMinutes int) []int {
	if durationMinutes <= 0 {
		return nil
	}

	starts := make([]int, 0)
	for start := free.Start; start+durationMinutes <= free.End; start += durationMinutes {
		starts = append(starts, start)
	}
	return starts
}

// TotalDuration returns the summed length of the given intervals in minutes
func TotalDuration(intervals []Interval) int {
	total := 0
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total
}
