package reservations

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
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	Cancel(ctx context.Context, id int64, actor domain.Actor, reason string) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	MarkRefunded(ctx context.Context, orderID string) error
}

// CatalogClient интерфейс клиента каталога бизнесов
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*catalog.Business, error)
}

// PaygateClient интерфейс клиента платежного шлюза
type PaygateClient interface {
	Refund(ctx context.Context, req paygate.RefundRequest) error
}

// NotifierClient интерфейс клиента сервиса уведомлений
type NotifierClient interface {
	NotifyTransition(ctx context.Context, event notifier.TransitionEvent) error
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
