package get_monthly_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/petmily/PM-ReservationService/internal/api/handlers"
	getMonthlySchedule "github.com/petmily/PM-ReservationService/internal/usecase/get_monthly_schedule"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgMissingYearMonth  = "параметр yearMonth обязателен"
	msgInvalidYearMonth  = "некорректный формат yearMonth, ожидается YYYY-MM"
)

type Handler struct {
	useCase GetMonthlyScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetMonthlyScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/monthly-schedule
// Query params: yearMonth (required, YYYY-MM), serviceId (ignored: сводка
// не зависит от услуги)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/monthly-schedule - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	yearMonth := r.URL.Query().Get("yearMonth")
	if yearMonth == "" {
		h.logger.Warn("GET /businesses/{id}/monthly-schedule - Missing yearMonth")
		handlers.RespondBadRequest(w, msgMissingYearMonth)
		return
	}

	useCaseReq, err := ToUseCaseRequest(businessID, yearMonth)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/monthly-schedule - Invalid yearMonth: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYearMonth)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getMonthlySchedule.ErrInvalidMonth),
			errors.Is(err, getMonthlySchedule.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/monthly-schedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidYearMonth)

		default:
			h.logger.Error("GET /businesses/{id}/monthly-schedule - Failed: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /businesses/{id}/monthly-schedule - Summary retrieved: business_id=%d, year_month=%s, days=%d",
		businessID, yearMonth, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, response)
}
