package approve_payment

import (
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	createReservation "github.com/petmily/PM-ReservationService/internal/usecase/create_reservation"
)

// ApprovePaymentRequest HTTP request model
type ApprovePaymentRequest struct {
	OrderID    string  `json:"orderId"`
	PaymentKey string  `json:"paymentKey"`
	Amount     float64 `json:"amount"`
	Notes      *string `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID          int64   `json:"id"`
	OrderID     string  `json:"orderId"`
	BusinessID  int64   `json:"businessId"`
	ServiceID   int64   `json:"serviceId"`
	CustomerID  int64   `json:"customerId"`
	PetID       int64   `json:"petId"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Status      string  `json:"status"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ApprovePaymentRequest) ToUseCaseRequest(customerID int64) *createReservation.Request {
	return &createReservation.Request{
		CustomerID: customerID,
		OrderID:    r.OrderID,
		PaymentKey: r.PaymentKey,
		Amount:     r.Amount,
		Notes:      r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:          resp.ID,
		OrderID:     resp.OrderID,
		BusinessID:  resp.BusinessID,
		ServiceID:   resp.ServiceID,
		CustomerID:  resp.CustomerID,
		PetID:       resp.PetID,
		Date:        resp.Date.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		Status:      resp.Status,
		ServiceName: resp.ServiceName,
		Price:       resp.Price,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
