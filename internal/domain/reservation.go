package domain

import (
	"fmt"
	"time"

	"github.com/petmily/PM-ReservationService/pkg/types"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCanceled  ReservationStatus = "canceled"
)

// Actor identifies who drives a status transition
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorBusiness Actor = "business"
	ActorSystem   Actor = "system"
)

// allowedTransitions is the single authority on status changes.
// Creation (payment approved -> pending) is handled separately by the
// reservation usecase; completed and canceled are terminal.
var allowedTransitions = map[ReservationStatus]map[ReservationStatus]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCanceled:  true,
	},
	StatusConfirmed: {
		StatusCompleted: true,
		StatusCanceled:  true,
	},
}

// CanTransitionTo returns true if the transition is listed in the table
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	return allowedTransitions[s][next]
}

// IsTerminal returns true if no further transition is allowed from s
func (s ReservationStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// ParseReservationStatus validates and converts a raw status string
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch ReservationStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return ReservationStatus(s), nil
	default:
		return "", fmt.Errorf("domain: unknown reservation status %q", s)
	}
}

// Reservation represents a booked interval in the ledger.
// Rows are never physically deleted: cancellation is a status change and the
// record is kept for history.
type Reservation struct {
	ID         int64
	OrderID    string // server-issued idempotency key linking payment to creation
	BusinessID int64
	ServiceID  int64
	CustomerID int64
	PetID      int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	Status     ReservationStatus

	// Denormalized data for history
	ServiceName string
	Price       float64
	Notes       *string

	CancellationReason *string
	CancelledBy        *Actor
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation occupies its interval in the ledger
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCanceled
}

// CanBeCancelled returns true if the reservation may still transition to canceled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status.CanTransitionTo(StatusCanceled)
}

// Interval returns the reserved interval in minutes since midnight
func (r *Reservation) Interval() (Interval, error) {
	return intervalFromTimeStrings(r.StartTime, r.EndTime)
}

// ReservationsFilter filters ledger queries for one business
type ReservationsFilter struct {
	BusinessID      int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *ReservationStatus
	IncludeInactive bool // include canceled reservations
}

func intervalFromTimeStrings(start, end types.TimeString) (Interval, error) {
	startMin, err := start.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("domain: invalid start time: %w", err)
	}
	endMin, err := end.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("domain: invalid end time: %w", err)
	}
	iv := Interval{Start: startMin, End: endMin}
	if !iv.IsValid() {
		return Interval{}, fmt.Errorf("domain: invalid interval %s-%s", start, end)
	}
	return iv, nil
}
