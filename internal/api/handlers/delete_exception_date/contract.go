package delete_exception_date

import (
	"context"

	"github.com/petmily/PM-ReservationService/internal/service/schedule/models"
)

type ScheduleService interface {
	DeleteException(ctx context.Context, req *models.DeleteExceptionRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
