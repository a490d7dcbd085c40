package get_monthly_schedule

import (
	"context"

	getMonthlySchedule "github.com/petmily/PM-ReservationService/internal/usecase/get_monthly_schedule"
)

type GetMonthlyScheduleUseCase interface {
	Execute(ctx context.Context, req *getMonthlySchedule.Request) (*getMonthlySchedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
