package get_available_times

import (
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	getAvailableTimes "github.com/petmily/PM-ReservationService/internal/usecase/get_available_times"
)

// AvailableTimesResponse HTTP response model
type AvailableTimesResponse struct {
	BusinessID      int64    `json:"businessId"`
	ServiceID       int64    `json:"serviceId"`
	Date            string   `json:"date"`
	DurationMinutes int      `json:"durationMinutes"`
	Times           []string `json:"times"`
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(businessID, serviceID int64, dateStr string) (*getAvailableTimes.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableTimes.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableTimes.Response) *AvailableTimesResponse {
	times := make([]string, len(resp.Times))
	for i, t := range resp.Times {
		times[i] = t.String()
	}

	return &AvailableTimesResponse{
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Times:           times,
	}
}
