package get_disabled_dates

import (
	getDisabledDates "github.com/petmily/PM-ReservationService/internal/usecase/get_disabled_dates"
)

// DisabledDatesResponse HTTP response model
type DisabledDatesResponse struct {
	ServiceID     int64    `json:"serviceId"`
	BusinessID    int64    `json:"businessId"`
	From          string   `json:"from"`
	To            string   `json:"to"`
	DisabledDates []string `json:"disabledDates"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getDisabledDates.Response) *DisabledDatesResponse {
	return &DisabledDatesResponse{
		ServiceID:     resp.ServiceID,
		BusinessID:    resp.BusinessID,
		From:          resp.From,
		To:            resp.To,
		DisabledDates: resp.DisabledDates,
	}
}
