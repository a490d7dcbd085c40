package set_exception_date

import (
	"context"

	"github.com/petmily/PM-ReservationService/internal/service/schedule/models"
)

type ScheduleService interface {
	SetException(ctx context.Context, req *models.SetExceptionRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
