package request_payment

import (
	"errors"
	"net/http"

	"github.com/petmily/PM-ReservationService/internal/api/handlers"
	"github.com/petmily/PM-ReservationService/internal/api/middleware"
	"github.com/petmily/PM-ReservationService/internal/service/payments"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingSession     = "требуется авторизация"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgPaymentFailed      = "платежный шлюз отклонил запрос"
	msgCatalogUnavailable = "каталог временно недоступен"
	msgInvalidRequest     = "некорректные параметры бронирования"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/request
// Выдает orderId и checkout ссылку; бронирование создается только после
// подтверждения платежа
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /payments/request - Missing user session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	var req RequestPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/request - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.RequestPayment(r.Context(), req.ToServiceRequest(customerID))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrBusinessNotFound):
			h.logger.Warn("POST /payments/request - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, payments.ErrServiceNotFound):
			h.logger.Warn("POST /payments/request - Service not found: business_id=%d, service_id=%d",
				req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, payments.ErrPaymentFailed):
			h.logger.Warn("POST /payments/request - Payment gateway declined: customer_id=%d, error=%v",
				customerID, err)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentFailed)

		case errors.Is(err, payments.ErrCatalogUnavailable):
			h.logger.Error("POST /payments/request - Catalog unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCatalogUnavailable)

		case errors.Is(err, payments.ErrInvalidInput):
			h.logger.Warn("POST /payments/request - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /payments/request - Failed: customer_id=%d, business_id=%d, error=%v",
				customerID, req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/request - Payment session created: order_id=%s, customer_id=%d, business_id=%d",
		result.OrderID, customerID, req.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
