package get_available_times

import (
	"context"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/internal/integrations/catalog"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetDay(ctx context.Context, businessID int64, day domain.WeekDay) (*domain.WeeklyScheduleEntry, error)
	GetException(ctx context.Context, businessID int64, date time.Time) (*domain.ExceptionDate, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByBusinessWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	ListActiveBlocksInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.TimeBlock, error)
}

// CatalogClient интерфейс клиента каталога бизнесов
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*catalog.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*catalog.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
