package domain

import (
	"time"

	"github.com/petmily/PM-ReservationService/pkg/types"
)

// TimeBlock is an administrative hold (lunch break, vacation, maintenance)
// with no associated customer. An active block occupies the ledger exactly
// like a reservation.
type TimeBlock struct {
	ID         int64
	BusinessID int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	Reason     string
	CreatedAt  time.Time
	ReleasedAt *time.Time
}

// IsActive returns true while the block occupies its interval
func (b *TimeBlock) IsActive() bool {
	return b.ReleasedAt == nil
}

// Interval returns the blocked interval in minutes since midnight
func (b *TimeBlock) Interval() (Interval, error) {
	return intervalFromTimeStrings(b.StartTime, b.EndTime)
}
