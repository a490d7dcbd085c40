package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	catalogClient "github.com/petmily/PM-ReservationService/internal/integrations/catalog"
	"github.com/petmily/PM-ReservationService/internal/integrations/notifier"
	"github.com/petmily/PM-ReservationService/internal/integrations/paygate"
	paymentRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/payment"
	reservationRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/reservation"
	"github.com/petmily/PM-ReservationService/internal/service/reservations/models"
)

// Service сервис жизненного цикла бронирований.
// Все смены статуса проходят через таблицу переходов domain.ReservationStatus;
// отмена подтвержденного бронирования запускает возврат платежа.
type Service struct {
	reservationRepo ReservationRepository
	paymentRepo     PaymentRepository
	catalogClient   CatalogClient
	paygateClient   PaygateClient
	notifierClient  NotifierClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	paymentRepo PaymentRepository,
	catalogClient CatalogClient,
	paygateClient PaygateClient,
	notifierClient NotifierClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		catalogClient:   catalogClient,
		paygateClient:   paygateClient,
		notifierClient:  notifierClient,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - клиент видит только свое бронирование,
// бизнес-сторона видит бронирования своего бизнеса
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, reservation, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return models.FromDomainReservation(reservation), nil
}

// GetCustomerReservations получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerReservations(ctx context.Context, req *models.GetCustomerReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetCustomerReservations: fetching reservations for customer=%d, status=%v", req.CustomerID, req.Status)

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := domain.ParseReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerReservations: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerReservations: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerReservations: successfully fetched %d reservations for customer=%d", len(reservations), req.CustomerID)
	return models.FromDomainReservationList(reservations), nil
}

// GetBusinessReservations получает бронирования бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отмененных бронирований
// Доступно только владельцу или менеджерам бизнеса
func (s *Service) GetBusinessReservations(ctx context.Context, req *models.GetBusinessReservationsRequest) (*models.ReservationListResponse, error) {
	logMsg := fmt.Sprintf("GetBusinessReservations: fetching reservations for business=%d, user=%d", req.BusinessID, req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if err := s.checkBusinessAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessReservations: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessReservations: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessReservations: successfully fetched %d reservations for business=%d", len(reservations), req.BusinessID)
	return models.FromDomainReservationList(reservations), nil
}

// UpdateStatus переводит бронирование в новый статус по таблице переходов
// Доступно только бизнес-стороне; отмена выполняется отдельным методом Cancel
func (s *Service) UpdateStatus(ctx context.Context, reservationID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating reservation id=%d to status=%s by user=%d",
		reservationID, req.Status, req.UserID)

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("UpdateStatus: reservation id=%d not found", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("UpdateStatus: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.checkBusinessAccess(ctx, reservation.BusinessID, req.UserID); err != nil {
		return err
	}

	newStatus, err := domain.ParseReservationStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for reservation id=%d", req.Status, reservationID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Отмена идет через Cancel: там определяется инициатор и выполняется возврат
	if newStatus == domain.StatusCanceled {
		s.logger.Warn("UpdateStatus: cancellation requested via status update for reservation id=%d", reservationID)
		return fmt.Errorf("%w: use cancellation endpoint to cancel", ErrInvalidInput)
	}

	if !reservation.Status.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for reservation id=%d",
			reservation.Status, newStatus, reservationID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, newStatus)
	}

	if err := s.reservationRepo.UpdateStatus(ctx, reservationID, newStatus); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("UpdateStatus: reservation id=%d not found during update", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("UpdateStatus: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.notifyTransition(ctx, reservation, newStatus, domain.ActorBusiness)

	s.logger.Info("UpdateStatus: successfully updated reservation id=%d to status=%s", reservationID, newStatus)
	return nil
}

// Cancel отменяет бронирование
// Клиент может отменить только свое бронирование, бизнес-сторона - любое
// бронирование своего бизнеса. Подтвержденный платеж возвращается.
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, req.UserID)

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !reservation.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%d cannot be cancelled, status=%s", reservationID, reservation.Status)
		return ErrCannotCancel
	}

	// Определяем инициатора отмены в зависимости от прав доступа
	var actor domain.Actor
	if reservation.CustomerID == req.UserID {
		actor = domain.ActorCustomer
	} else {
		if err := s.checkBusinessAccess(ctx, reservation.BusinessID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel reservation id=%d", req.UserID, reservationID)
			return ErrAccessDenied
		}
		actor = domain.ActorBusiness
	}

	if err := s.reservationRepo.Cancel(ctx, reservationID, actor, req.CancellationReason); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found during cancellation", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.notifyTransition(ctx, reservation, domain.StatusCanceled, actor)

	// Возврат платежа после фиксации отмены: статус уже изменен,
	// неудавшийся возврат не откатывает отмену
	if err := s.refundIfCaptured(ctx, reservation, req.CancellationReason); err != nil {
		s.logger.Error("Cancel: refund failed for reservation id=%d, order=%s: %v",
			reservationID, reservation.OrderID, err)
		return fmt.Errorf("%w: order %s", ErrRefundFailed, reservation.OrderID)
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d by %s", reservationID, actor)
	return nil
}

// Вспомогательные методы

// refundIfCaptured возвращает платеж бронирования, если он был подтвержден
func (s *Service) refundIfCaptured(ctx context.Context, reservation *domain.Reservation, reason string) error {
	payment, err := s.paymentRepo.GetByOrderID(ctx, reservation.OrderID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Warn("refundIfCaptured: no payment for order=%s", reservation.OrderID)
			return nil
		}
		return fmt.Errorf("failed to get payment: %w", err)
	}

	if !payment.IsCaptured() {
		s.logger.Info("refundIfCaptured: payment order=%s in status=%s, nothing to refund",
			payment.OrderID, payment.Status)
		return nil
	}

	if err := s.paygateClient.Refund(ctx, paygate.RefundRequest{
		OrderID: payment.OrderID,
		Reason:  reason,
	}); err != nil {
		return fmt.Errorf("gateway refund: %w", err)
	}

	if err := s.paymentRepo.MarkRefunded(ctx, payment.OrderID); err != nil {
		return fmt.Errorf("failed to mark payment refunded: %w", err)
	}

	s.logger.Info("refundIfCaptured: refunded payment order=%s, amount=%.2f", payment.OrderID, payment.Amount)
	return nil
}

// notifyTransition отправляет уведомление о смене статуса
// Ошибка отправки логируется и не влияет на результат операции
func (s *Service) notifyTransition(ctx context.Context, reservation *domain.Reservation, newStatus domain.ReservationStatus, actor domain.Actor) {
	event := notifier.TransitionEvent{
		ReservationID:  reservation.ID,
		BusinessID:     reservation.BusinessID,
		CustomerID:     reservation.CustomerID,
		PreviousStatus: string(reservation.Status),
		NewStatus:      string(newStatus),
		Actor:          string(actor),
		OccurredAt:     s.timeProvider.Now().Format(time.RFC3339),
	}

	if err := s.notifierClient.NotifyTransition(ctx, event); err != nil {
		s.logger.Warn("notifyTransition: failed to notify for reservation id=%d: %v", reservation.ID, err)
	}
}

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Клиент видит свое бронирование, бизнес-сторона - бронирования своего бизнеса
func (s *Service) checkUserAccess(ctx context.Context, reservation *domain.Reservation, userID int64) error {
	if reservation.CustomerID == userID {
		return nil
	}

	if err := s.checkBusinessAccess(ctx, reservation.BusinessID, userID); err != nil {
		// Ошибка уже залогирована в checkBusinessAccess
		return ErrAccessDenied
	}

	return nil
}

// checkBusinessAccess проверяет, что пользователь является владельцем
// или менеджером бизнеса
func (s *Service) checkBusinessAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.catalogClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBusinessNotFound) {
			s.logger.Warn("checkBusinessAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkBusinessAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkBusinessAccess - failed to get business: %v", ErrInternal, err)
	}

	if business.OwnerID == userID {
		return nil
	}

	for _, managerID := range business.ManagerIDs {
		if managerID == userID {
			s.logger.Info("checkBusinessAccess: user=%d is manager of business=%d", userID, businessID)
			return nil
		}
	}

	s.logger.Warn("checkBusinessAccess: user=%d has no access to business=%d", userID, businessID)
	return ErrAccessDenied
}
