package release_time_block

import (
	"context"

	"github.com/petmily/PM-ReservationService/internal/service/schedule/models"
)

type ScheduleService interface {
	ReleaseTimeBlock(ctx context.Context, req *models.ReleaseTimeBlockRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
