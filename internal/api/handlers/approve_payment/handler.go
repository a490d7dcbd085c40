package approve_payment

import (
	"errors"
	"net/http"

	"github.com/petmily/PM-ReservationService/internal/api/handlers"
	"github.com/petmily/PM-ReservationService/internal/api/middleware"
	createReservation "github.com/petmily/PM-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingSession     = "требуется авторизация"
	msgPaymentNotFound    = "платеж не найден"
	msgForbidden          = "доступ запрещен"
	msgPaymentDeclined    = "платеж отклонен"
	msgAmountMismatch     = "сумма не совпадает с платежной записью"
	msgOrderRefunded      = "платеж по заказу уже возвращен"
	msgSlotConflict       = "выбранный временной слот занят, платеж возвращен"
	msgBusinessClosed     = "бизнес закрыт в выбранную дату"
	msgOutsideHours       = "слот выходит за рабочие часы"
	msgServiceNotFound    = "услуга не найдена"
	msgCatalogUnavailable = "каталог временно недоступен"
	msgInvalidStartTime   = "время начала уже недоступно"
	msgInvalidRequest     = "некорректные параметры подтверждения"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/approve
// Подтверждает платеж и создает бронирование; повторное подтверждение
// того же orderId возвращает уже созданное бронирование
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /payments/approve - Missing user session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	var req ApprovePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/approve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(customerID))
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/approve - Payment not found: order_id=%s", req.OrderID)
			handlers.RespondNotFound(w, msgPaymentNotFound)

		case errors.Is(err, createReservation.ErrAccessDenied):
			h.logger.Warn("POST /payments/approve - Access denied: order_id=%s, customer_id=%d",
				req.OrderID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createReservation.ErrPaymentDeclined):
			h.logger.Warn("POST /payments/approve - Payment declined: order_id=%s", req.OrderID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentDeclined)

		case errors.Is(err, createReservation.ErrAmountMismatch):
			h.logger.Warn("POST /payments/approve - Amount mismatch: order_id=%s, amount=%.2f",
				req.OrderID, req.Amount)
			handlers.RespondBadRequest(w, msgAmountMismatch)

		case errors.Is(err, createReservation.ErrOrderRefunded):
			h.logger.Warn("POST /payments/approve - Order already refunded: order_id=%s", req.OrderID)
			handlers.RespondError(w, http.StatusConflict, msgOrderRefunded)

		case errors.Is(err, createReservation.ErrSlotConflict):
			h.logger.Warn("POST /payments/approve - Slot conflict: order_id=%s, customer_id=%d",
				req.OrderID, customerID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createReservation.ErrBusinessClosed):
			h.logger.Warn("POST /payments/approve - Business closed: order_id=%s", req.OrderID)
			handlers.RespondBadRequest(w, msgBusinessClosed)

		case errors.Is(err, createReservation.ErrOutsideWorkingHours):
			h.logger.Warn("POST /payments/approve - Outside working hours: order_id=%s", req.OrderID)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createReservation.ErrServiceNotFound):
			h.logger.Warn("POST /payments/approve - Service not found: order_id=%s", req.OrderID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createReservation.ErrCatalogUnavailable):
			h.logger.Error("POST /payments/approve - Catalog unavailable: order_id=%s, error=%v",
				req.OrderID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCatalogUnavailable)

		case errors.Is(err, createReservation.ErrInvalidStartTime):
			h.logger.Warn("POST /payments/approve - Invalid start time: order_id=%s", req.OrderID)
			handlers.RespondBadRequest(w, msgInvalidStartTime)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /payments/approve - Invalid input: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /payments/approve - Failed: order_id=%s, customer_id=%d, error=%v",
				req.OrderID, customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /payments/approve - Reservation created: reservation_id=%d, order_id=%s, customer_id=%d",
		result.ID, req.OrderID, customerID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
