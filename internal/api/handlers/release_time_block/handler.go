package release_time_block

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
	msgInvalidBlockID    = "некорректный ID блокировки"
	msgMissingSession    = "требуется авторизация"
	msgBusinessNotFound  = "бизнес не найден"
	msgBlockNotFound     = "блокировка не найдена"
	msgForbidden         = "доступ запрещен"
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

// Handle DELETE /api/v1/businesses/{businessId}/time-blocks/{blockId}
// Снятие уже снятой блокировки считается успехом
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/time-blocks/{id} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	blockID, err := strconv.ParseInt(vars["blockId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/time-blocks/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /businesses/{id}/time-blocks/{id} - Missing user session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	err = h.service.ReleaseTimeBlock(r.Context(), &models.ReleaseTimeBlockRequest{
		UserID:     userID,
		BusinessID: businessID,
		BlockID:    blockID,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBlockNotFound):
			h.logger.Warn("DELETE /businesses/{id}/time-blocks/{id} - Block not found: block_id=%d", blockID)
			handlers.RespondNotFound(w, msgBlockNotFound)

		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("DELETE /businesses/{id}/time-blocks/{id} - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/time-blocks/{id} - Access denied: block_id=%d, user_id=%d",
				blockID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/time-blocks/{id} - Failed: block_id=%d, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/time-blocks/{id} - Block released: block_id=%d, business_id=%d, user_id=%d",
		blockID, businessID, userID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
