package delete_exception_date

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/petmily/PM-ReservationService/internal/api/handlers"
	"github.com/petmily/PM-ReservationService/internal/api/middleware"
	"github.com/petmily/PM-ReservationService/internal/service/schedule"
	"github.com/petmily/PM-ReservationService/internal/service/schedule/models"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgMissingSession    = "требуется авторизация"
	msgBusinessNotFound  = "бизнес не найден"
	msgExceptionNotFound = "исключение не найдено"
	msgForbidden         = "доступ запрещен"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/businesses/{businessId}/exceptions/{date}
// Возвращает дате недельный шаблон
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Missing user session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	date := vars["date"]

	err = h.service.DeleteException(r.Context(), &models.DeleteExceptionRequest{
		UserID:     userID,
		BusinessID: businessID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrExceptionNotFound):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Exception not found: business_id=%d, date=%s",
				businessID, date)
			handlers.RespondNotFound(w, msgExceptionNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Invalid date: business_id=%d, date=%s",
				businessID, date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("DELETE /businesses/{id}/exceptions/{date} - Failed: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/exceptions/{date} - Exception deleted: business_id=%d, date=%s, user_id=%d",
		businessID, date, userID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
