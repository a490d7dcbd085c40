package request_payment

import (
	"github.com/petmily/PM-ReservationService/internal/service/payments/models"
)

// RequestPaymentRequest HTTP request model: параметры слота фиксируются
// платежной записью до прохождения оплаты
type RequestPaymentRequest struct {
	BusinessID int64  `json:"businessId"`
	ServiceID  int64  `json:"serviceId"`
	PetID      int64  `json:"petId"`
	Date       string `json:"date"`      // "2025-10-15"
	StartTime  string `json:"startTime"` // "10:00"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RequestPaymentRequest) ToServiceRequest(customerID int64) *models.RequestPaymentRequest {
	return &models.RequestPaymentRequest{
		CustomerID: customerID,
		BusinessID: r.BusinessID,
		ServiceID:  r.ServiceID,
		PetID:      r.PetID,
		Date:       r.Date,
		StartTime:  r.StartTime,
	}
}
