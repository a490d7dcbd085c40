package get_business_reservations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/petmily/PM-ReservationService/internal/api/handlers"
	"github.com/petmily/PM-ReservationService/internal/api/middleware"
	"github.com/petmily/PM-ReservationService/internal/service/reservations"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgMissingSession    = "требуется авторизация"
	msgBusinessNotFound  = "бизнес не найден"
	msgForbidden         = "доступ запрещен"
	msgInvalidFilter     = "некорректные параметры фильтра"
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

// Handle GET /api/v1/businesses/{businessId}/reservations
// Query params: date | from, to (YYYY-MM-DD), status, includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/reservations - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /businesses/{id}/reservations - Missing user session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	req, err := ToServiceRequest(userID, businessID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/reservations - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.GetBusinessReservations(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/reservations - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/reservations - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/reservations - Invalid filter: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /businesses/{id}/reservations - Failed: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/reservations - Retrieved: business_id=%d, user_id=%d, count=%d",
		businessID, userID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
