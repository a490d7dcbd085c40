package notifier

// TransitionEvent событие смены статуса бронирования
type TransitionEvent struct {
	ReservationID  int64  `json:"reservation_id"`
	BusinessID     int64  `json:"business_id"`
	CustomerID     int64  `json:"customer_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	Actor          string `json:"actor"`
	OccurredAt     string `json:"occurred_at"`
}
