package get_disabled_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/petmily/PM-ReservationService/internal/api/handlers"
	getDisabledDates "github.com/petmily/PM-ReservationService/internal/usecase/get_disabled_dates"
)

const (
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidDays        = "некорректное значение days"
	msgServiceNotFound    = "услуга не найдена"
	msgCatalogUnavailable = "каталог временно недоступен"
)

type Handler struct {
	useCase GetDisabledDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetDisabledDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/disabled-dates
// Query params: days (optional, по умолчанию окно бронирования)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/disabled-dates - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	days := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err = strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			h.logger.Warn("GET /services/{id}/disabled-dates - Invalid days: %q", daysStr)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getDisabledDates.Request{
		ServiceID: serviceID,
		Days:      days,
	})
	if err != nil {
		switch {
		case errors.Is(err, getDisabledDates.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/disabled-dates - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getDisabledDates.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/disabled-dates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDays)

		case errors.Is(err, getDisabledDates.ErrCatalogUnavailable):
			h.logger.Error("GET /services/{id}/disabled-dates - Catalog unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCatalogUnavailable)

		default:
			h.logger.Error("GET /services/{id}/disabled-dates - Failed: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /services/{id}/disabled-dates - Dates retrieved: service_id=%d, disabled_count=%d",
		serviceID, len(result.DisabledDates))
	handlers.RespondJSON(w, http.StatusOK, response)
}
