package get_monthly_schedule

import (
	"context"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetWeek(ctx context.Context, businessID int64) ([]*domain.WeeklyScheduleEntry, error)
	ListExceptionsInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.ExceptionDate, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByBusinessWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	ListActiveBlocksInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.TimeBlock, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
