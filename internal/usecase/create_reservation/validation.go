package create_reservation

import (
	"fmt"

	"github.com/petmily/PM-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.OrderID == "" {
		return fmt.Errorf("%w: orderID is required", ErrInvalidInput)
	}

	if req.PaymentKey == "" {
		return fmt.Errorf("%w: paymentKey is required", ErrInvalidInput)
	}

	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
