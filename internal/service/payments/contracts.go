package payments

import (
	"context"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/internal/integrations/catalog"
	"github.com/petmily/PM-ReservationService/internal/integrations/paygate"
)

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
}

// CatalogClient интерфейс клиента каталога бизнесов
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*catalog.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*catalog.Service, error)
}

// PaygateClient интерфейс клиента платежного шлюза
type PaygateClient interface {
	CreateCheckout(ctx context.Context, req paygate.CheckoutRequest) (*paygate.CheckoutSession, error)
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
