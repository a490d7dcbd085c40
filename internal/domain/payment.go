package domain

import (
	"time"

	"github.com/petmily/PM-ReservationService/pkg/types"
)

// PaymentStatus represents the capture state of a payment
type PaymentStatus string

const (
	PaymentStatusReady    PaymentStatus = "ready"    // requested, not yet captured
	PaymentStatusCaptured PaymentStatus = "captured" // approved by the payment gateway
	PaymentStatusRefunded PaymentStatus = "refunded" // captured and then refunded
)

// Payment is created before the reservation and linked to it only after
// approval. OrderID is the idempotency key for the whole booking flow: the
// reconciliation path between "captured" and "reservation inserted" is keyed
// by it, so a captured payment always ends with a reservation or a refund.
type Payment struct {
	ID         int64
	OrderID    string
	PaymentKey string
	BusinessID int64
	ServiceID  int64
	CustomerID int64
	PetID      int64
	Date       time.Time
	StartTime  types.TimeString
	Amount     float64
	Status     PaymentStatus

	ReservationID *int64 // set once the reservation is created

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCaptured returns true if the payment has been captured and not refunded
func (p *Payment) IsCaptured() bool {
	return p.Status == PaymentStatusCaptured
}
