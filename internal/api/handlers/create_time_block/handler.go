package create_time_block

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/petmily/PM-ReservationService/internal/api/handlers"
	"github.com/petmily/PM-ReservationService/internal/api/middleware"
	"github.com/petmily/PM-ReservationService/internal/service/schedule"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingSession     = "требуется авторизация"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidBlock       = "некорректная блокировка времени"
	msgTimeConflict       = "интервал пересекается с бронированиями или блокировками"
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

// Handle POST /api/v1/businesses/{businessId}/time-blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/time-blocks - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /businesses/{id}/time-blocks - Missing user session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	var req CreateTimeBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/time-blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	block, err := h.service.CreateTimeBlock(r.Context(), req.ToServiceRequest(userID, businessID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("POST /businesses/{id}/time-blocks - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /businesses/{id}/time-blocks - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrTimeConflict):
			h.logger.Warn("POST /businesses/{id}/time-blocks - Time conflict: business_id=%d, date=%s, %s-%s",
				businessID, req.Date, req.StartTime, req.EndTime)
			handlers.RespondError(w, http.StatusConflict, msgTimeConflict)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /businesses/{id}/time-blocks - Validation failed: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondBadRequest(w, msgInvalidBlock)

		default:
			h.logger.Error("POST /businesses/{id}/time-blocks - Failed: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/time-blocks - Block created: block_id=%d, business_id=%d, user_id=%d",
		block.ID, businessID, userID)
	handlers.RespondJSON(w, http.StatusCreated, block)
}
