package request_payment

import (
	"context"

	"github.com/petmily/PM-ReservationService/internal/service/payments/models"
)

type PaymentService interface {
	RequestPayment(ctx context.Context, req *models.RequestPaymentRequest) (*models.RequestPaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
