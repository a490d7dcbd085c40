package get_customer_reservations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/petmily/PM-ReservationService/internal/api/handlers"
	"github.com/petmily/PM-ReservationService/internal/api/middleware"
	"github.com/petmily/PM-ReservationService/internal/service/reservations"
	"github.com/petmily/PM-ReservationService/internal/service/reservations/models"
)

const (
	msgInvalidCustomerID = "некорректный ID клиента"
	msgMissingSession    = "требуется авторизация"
	msgForbidden         = "доступ запрещен"
	msgInvalidStatus     = "некорректный статус"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/customers/{customerId}/reservations
// Query params: status (optional)
// Клиент видит только свою историю
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	customerID, err := strconv.ParseInt(vars["customerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /customers/{id}/reservations - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /customers/{id}/reservations - Missing user session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	if userID != customerID {
		h.logger.Warn("GET /customers/{id}/reservations - Access denied: customer_id=%d, user_id=%d",
			customerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	req := &models.GetCustomerReservationsRequest{
		CustomerID: customerID,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetCustomerReservations(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /customers/{id}/reservations - Invalid status: customer_id=%d, error=%v",
				customerID, err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /customers/{id}/reservations - Failed: customer_id=%d, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /customers/{id}/reservations - Retrieved: customer_id=%d, count=%d",
		customerID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
