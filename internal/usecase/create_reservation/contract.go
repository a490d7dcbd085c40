package create_reservation

import (
	"context"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/internal/integrations/catalog"
	"github.com/petmily/PM-ReservationService/internal/integrations/notifier"
	"github.com/petmily/PM-ReservationService/internal/integrations/paygate"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Reservation, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	ListActiveBlocksInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.TimeBlock, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	MarkCaptured(ctx context.Context, orderID string, paymentKey string) error
	MarkRefunded(ctx context.Context, orderID string) error
	LinkReservation(ctx context.Context, orderID string, reservationID int64) error
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetDay(ctx context.Context, businessID int64, day domain.WeekDay) (*domain.WeeklyScheduleEntry, error)
	GetException(ctx context.Context, businessID int64, date time.Time) (*domain.ExceptionDate, error)
}

// CatalogClient интерфейс клиента каталога бизнесов
type CatalogClient interface {
	GetService(ctx context.Context, businessID, serviceID int64) (*catalog.Service, error)
}

// PaygateClient интерфейс клиента платежного шлюза
type PaygateClient interface {
	Approve(ctx context.Context, req paygate.ApproveRequest) (*paygate.Approval, error)
	Refund(ctx context.Context, req paygate.RefundRequest) error
}

// NotifierClient интерфейс клиента сервиса уведомлений
type NotifierClient interface {
	NotifyTransition(ctx context.Context, event notifier.TransitionEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
