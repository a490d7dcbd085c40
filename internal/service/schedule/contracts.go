package schedule

import (
	"context"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/internal/integrations/catalog"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	ReplaceWeek(ctx context.Context, businessID int64, entries []*domain.WeeklyScheduleEntry) error
	GetWeek(ctx context.Context, businessID int64) ([]*domain.WeeklyScheduleEntry, error)
	UpsertException(ctx context.Context, exception *domain.ExceptionDate) error
	ListExceptionsInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.ExceptionDate, error)
	DeleteException(ctx context.Context, businessID int64, date time.Time) error
}

// ReservationRepository интерфейс репозитория бронирований
// Нужен для проверки пересечений при создании блокировок времени
type ReservationRepository interface {
	GetByBusinessWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	CreateBlock(ctx context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error)
	GetBlockByID(ctx context.Context, id int64) (*domain.TimeBlock, error)
	ListActiveBlocksInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.TimeBlock, error)
	ReleaseBlock(ctx context.Context, id int64) error
}

// CatalogClient интерфейс клиента каталога бизнесов
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*catalog.Business, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
