package get_monthly_schedule

import (
	"fmt"
	"time"

	getMonthlySchedule "github.com/petmily/PM-ReservationService/internal/usecase/get_monthly_schedule"
)

// MonthlyScheduleResponse HTTP response model
type MonthlyScheduleResponse struct {
	BusinessID int64        `json:"businessId"`
	YearMonth  string       `json:"yearMonth"` // "2026-09"
	Days       []DaySummary `json:"days"`
}

// DaySummary сводка по одному дню месяца
type DaySummary struct {
	Date             string `json:"date"`
	IsDayOff         bool   `json:"isDayOff"`
	IsFullyBlocked   bool   `json:"isFullyBlocked"`
	HasReservations  bool   `json:"hasReservations"`
	ReservationCount int    `json:"reservationCount"`
	BlockCount       int    `json:"blockCount"`
}

// ToUseCaseRequest создает запрос use case из параметров запроса.
// yearMonth ожидается в формате YYYY-MM.
func ToUseCaseRequest(businessID int64, yearMonth string) (*getMonthlySchedule.Request, error) {
	parsed, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return nil, fmt.Errorf("invalid yearMonth %q", yearMonth)
	}

	return &getMonthlySchedule.Request{
		BusinessID: businessID,
		Year:       parsed.Year(),
		Month:      parsed.Month(),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getMonthlySchedule.Response) *MonthlyScheduleResponse {
	days := make([]DaySummary, len(resp.Days))
	for i, day := range resp.Days {
		days[i] = DaySummary{
			Date:             day.Date,
			IsDayOff:         day.IsDayOff,
			IsFullyBlocked:   day.IsFullyBlocked,
			HasReservations:  day.HasReservations,
			ReservationCount: day.ReservationCount,
			BlockCount:       day.BlockCount,
		}
	}

	return &MonthlyScheduleResponse{
		BusinessID: resp.BusinessID,
		YearMonth:  fmt.Sprintf("%04d-%02d", resp.Year, int(resp.Month)),
		Days:       days,
	}
}
