package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petmily/PM-ReservationService/internal/domain"
	catalogClient "github.com/petmily/PM-ReservationService/internal/integrations/catalog"
	"github.com/petmily/PM-ReservationService/internal/integrations/paygate"
	"github.com/petmily/PM-ReservationService/internal/service/payments/models"
	"github.com/petmily/PM-ReservationService/pkg/types"
)

// Service сервис инициализации оплаты.
// Платеж создается до бронирования: сначала запись в статусе ready и
// платежная сессия шлюза, создание бронирования происходит только после
// подтверждения платежа.
type Service struct {
	paymentRepo   PaymentRepository
	catalogClient CatalogClient
	paygateClient PaygateClient
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(
	paymentRepo PaymentRepository,
	catalogClient CatalogClient,
	paygateClient PaygateClient,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		paymentRepo:   paymentRepo,
		catalogClient: catalogClient,
		paygateClient: paygateClient,
		timeProvider:  timeProvider,
		logger:        logger,
	}
}

// RequestPayment создает платежную запись и платежную сессию шлюза.
// Сумма берется из каталога, а не из запроса клиента.
func (s *Service) RequestPayment(ctx context.Context, req *models.RequestPaymentRequest) (*models.RequestPaymentResponse, error) {
	s.logger.Info("RequestPayment: customer=%d, business=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.BusinessID, req.ServiceID, req.Date, req.StartTime)

	date, startTime, err := s.validateRequest(req)
	if err != nil {
		s.logger.Warn("RequestPayment: validation failed: %v", err)
		return nil, err
	}

	if _, err := s.catalogClient.GetBusiness(ctx, req.BusinessID); err != nil {
		if errors.Is(err, catalogClient.ErrBusinessNotFound) {
			s.logger.Warn("RequestPayment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		if errors.Is(err, catalogClient.ErrUnavailable) {
			s.logger.Error("RequestPayment: catalog unavailable: %v", err)
			return nil, ErrCatalogUnavailable
		}
		s.logger.Error("RequestPayment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	service, err := s.catalogClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			s.logger.Warn("RequestPayment: service id=%d not found in business=%d", req.ServiceID, req.BusinessID)
			return nil, ErrServiceNotFound
		}
		if errors.Is(err, catalogClient.ErrUnavailable) {
			s.logger.Error("RequestPayment: catalog unavailable: %v", err)
			return nil, ErrCatalogUnavailable
		}
		s.logger.Error("RequestPayment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.Price == nil {
		s.logger.Warn("RequestPayment: service id=%d has no price, online booking unavailable", req.ServiceID)
		return nil, fmt.Errorf("%w: service has no price", ErrInvalidInput)
	}
	amount := *service.Price

	orderID := uuid.NewString()

	payment := &domain.Payment{
		OrderID:    orderID,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		CustomerID: req.CustomerID,
		PetID:      req.PetID,
		Date:       date,
		StartTime:  startTime,
		Amount:     amount,
		Status:     domain.PaymentStatusReady,
	}

	if _, err := s.paymentRepo.Create(ctx, payment); err != nil {
		s.logger.Error("RequestPayment: failed to store payment order=%s: %v", orderID, err)
		return nil, fmt.Errorf("%w: failed to store payment: %v", ErrInternal, err)
	}

	session, err := s.paygateClient.CreateCheckout(ctx, paygate.CheckoutRequest{
		OrderID:   orderID,
		Amount:    amount,
		OrderName: service.Name,
	})
	if err != nil {
		s.logger.Error("RequestPayment: gateway checkout failed for order=%s: %v", orderID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	s.logger.Info("RequestPayment: created payment order=%s, amount=%.2f", orderID, amount)
	return &models.RequestPaymentResponse{
		OrderID:     orderID,
		Amount:      amount,
		CheckoutURL: session.CheckoutURL,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// validateRequest проверяет форматы даты и времени и что слот не в прошлом
func (s *Service) validateRequest(req *models.RequestPaymentRequest) (time.Time, types.TimeString, error) {
	if req.CustomerID <= 0 || req.BusinessID <= 0 || req.ServiceID <= 0 || req.PetID <= 0 {
		return time.Time{}, "", fmt.Errorf("%w: identifiers must be positive", ErrInvalidInput)
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}

	startTime := types.TimeString(req.StartTime)
	if err := startTime.Validate(); err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, req.StartTime)
	}

	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return time.Time{}, "", fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, req.Date)
	}
	if date.Equal(today) {
		startMin, err := startTime.Minutes()
		if err != nil {
			return time.Time{}, "", fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, req.StartTime)
		}
		nowMin := now.Hour()*60 + now.Minute()
		if startMin <= nowMin {
			return time.Time{}, "", fmt.Errorf("%w: start time %s has already passed", ErrInvalidInput, req.StartTime)
		}
	}

	return date, startTime, nil
}
