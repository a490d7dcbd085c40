package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	reservationRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/reservation"
	scheduleRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/schedule"
	catalogClient "github.com/petmily/PM-ReservationService/internal/integrations/catalog"
	"github.com/petmily/PM-ReservationService/internal/integrations/notifier"
	"github.com/petmily/PM-ReservationService/internal/integrations/paygate"
	paymentRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/payment"
	"github.com/petmily/PM-ReservationService/pkg/types"
)

// UseCase use case подтверждения платежа и создания бронирования.
//
// Порядок фиксированный: сначала capture платежа, затем проверка слота и
// вставка в одной serializable транзакции. Если слот заняли между capture
// и вставкой, платеж возвращается. orderID делает операцию идемпотентной:
// повторный запрос с тем же orderID возвращает уже созданное бронирование.
type UseCase struct {
	reservationRepo ReservationRepository
	paymentRepo     PaymentRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogClient
	paygateClient   PaygateClient
	notifierClient  NotifierClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	paymentRepo PaymentRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogClient,
	paygateClient PaygateClient,
	notifierClient NotifierClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		scheduleRepo:    scheduleRepo,
		catalogClient:   catalogClient,
		paygateClient:   paygateClient,
		notifierClient:  notifierClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// errDuplicateOrder внутренний маркер конкурентного повтора с тем же orderID
var errDuplicateOrder = errors.New("create_reservation: duplicate order")

// Execute выполняет use case подтверждения платежа и создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: customer=%d, order=%s", req.CustomerID, req.OrderID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем платежную запись: она фиксирует параметры слота
	payment, err := uc.paymentRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			uc.logger.Warn("CreateReservation: payment order=%s not found", req.OrderID)
			return nil, ErrPaymentNotFound
		}
		uc.logger.Error("CreateReservation: failed to get payment order=%s: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: failed to get payment: %v", ErrInternal, err)
	}

	if payment.CustomerID != req.CustomerID {
		uc.logger.Warn("CreateReservation: payment order=%s belongs to customer=%d, not %d",
			req.OrderID, payment.CustomerID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	// 4. Идемпотентный повтор: бронирование по этому orderID уже создано
	existing, err := uc.reservationRepo.GetByOrderID(ctx, req.OrderID)
	if err == nil {
		uc.logger.Info("CreateReservation: replay for order=%s, returning reservation id=%d",
			req.OrderID, existing.ID)
		return fromDomain(existing), nil
	}
	if !errors.Is(err, reservationRepo.ErrReservationNotFound) {
		uc.logger.Error("CreateReservation: failed to check existing reservation for order=%s: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: failed to check existing reservation: %v", ErrInternal, err)
	}

	// 5. Возвращенный заказ больше не подтверждается
	if payment.Status == domain.PaymentStatusRefunded {
		uc.logger.Warn("CreateReservation: order=%s already refunded", req.OrderID)
		return nil, ErrOrderRefunded
	}

	// 6. Сверяем сумму с зафиксированной при инициализации
	if req.Amount != payment.Amount {
		uc.logger.Warn("CreateReservation: amount mismatch for order=%s: got %.2f, expected %.2f",
			req.OrderID, req.Amount, payment.Amount)
		return nil, ErrAmountMismatch
	}

	// 7. Получаем услугу: длительность определяет конец интервала
	service, err := uc.getService(ctx, payment.BusinessID, payment.ServiceID)
	if err != nil {
		return nil, err
	}

	endTime, err := payment.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateReservation: slot %s+%dmin crosses midnight for order=%s",
			payment.StartTime, service.DurationMinutes, req.OrderID)
		return nil, ErrOutsideWorkingHours
	}

	// 8. Проверяем, что время начала еще достижимо
	if err := uc.validateStartTime(payment, now, service.MinLeadMinutes); err != nil {
		return nil, err
	}

	// 9. Проверяем рабочие часы: интервал должен целиком попасть в свободное окно
	slotInterval, err := intervalOf(payment.StartTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := uc.validateWorkingHours(ctx, payment.BusinessID, payment.Date, slotInterval); err != nil {
		return nil, err
	}

	// 10. Capture платежа. При повторе после сбоя платеж уже может быть
	// подтвержден, тогда шлюз не вызывается
	if !payment.IsCaptured() {
		if err := uc.capturePayment(ctx, req); err != nil {
			return nil, err
		}
	}

	// 11. Проверка слота и вставка в одной serializable транзакции
	var created *domain.Reservation
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		occupied, err := uc.occupiedIntervals(txCtx, payment.BusinessID, payment.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to collect occupied intervals: %v", ErrInternal, err)
		}

		for _, iv := range occupied {
			if slotInterval.Overlaps(iv) {
				return ErrSlotConflict
			}
		}

		reservation := &domain.Reservation{
			OrderID:     req.OrderID,
			BusinessID:  payment.BusinessID,
			ServiceID:   payment.ServiceID,
			CustomerID:  payment.CustomerID,
			PetID:       payment.PetID,
			Date:        payment.Date,
			StartTime:   payment.StartTime,
			EndTime:     endTime,
			Status:      domain.StatusPending,
			ServiceName: service.Name,
			Price:       payment.Amount,
			Notes:       req.Notes,
		}

		created, err = uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrDuplicateOrderID) {
				return errDuplicateOrder
			}
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		return uc.paymentRepo.LinkReservation(txCtx, req.OrderID, created.ID)
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotConflict):
			// Слот заняли между capture и вставкой: деньги возвращаются
			uc.refundAfterConflict(ctx, req.OrderID)
			return nil, ErrSlotConflict
		case errors.Is(err, errDuplicateOrder):
			// Конкурентный повтор успел первым, отдаем его результат
			winner, getErr := uc.reservationRepo.GetByOrderID(ctx, req.OrderID)
			if getErr != nil {
				uc.logger.Error("CreateReservation: duplicate order=%s but lookup failed: %v", req.OrderID, getErr)
				return nil, fmt.Errorf("%w: failed to load reservation: %v", ErrInternal, getErr)
			}
			uc.logger.Info("CreateReservation: concurrent replay for order=%s, reservation id=%d",
				req.OrderID, winner.ID)
			return fromDomain(winner), nil
		default:
			uc.logger.Error("CreateReservation: transaction failed for order=%s: %v", req.OrderID, err)
			return nil, err
		}
	}

	uc.logger.Info("CreateReservation: created reservation id=%d for order=%s", created.ID, req.OrderID)

	uc.notifyCreated(ctx, created)

	return fromDomain(created), nil
}

// getService получает услугу из каталога с маппингом ошибок
func (uc *UseCase) getService(ctx context.Context, businessID, serviceID int64) (*catalogClient.Service, error) {
	service, err := uc.catalogClient.GetService(ctx, businessID, serviceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateReservation: service id=%d not found in business=%d", serviceID, businessID)
			return nil, ErrServiceNotFound
		}
		if errors.Is(err, catalogClient.ErrUnavailable) {
			uc.logger.Error("CreateReservation: catalog unavailable: %v", err)
			return nil, ErrCatalogUnavailable
		}
		uc.logger.Error("CreateReservation: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	return service, nil
}

// validateStartTime проверяет, что дата не в прошлом и на сегодня соблюдено
// минимальное время до начала услуги
func (uc *UseCase) validateStartTime(payment *domain.Payment, now time.Time, minLeadMinutes int) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	date := time.Date(payment.Date.Year(), payment.Date.Month(), payment.Date.Day(), 0, 0, 0, 0, now.Location())

	if date.Before(today) {
		uc.logger.Warn("CreateReservation: date %s is in the past for order=%s",
			payment.Date.Format(domain.DateFormat), payment.OrderID)
		return ErrInvalidStartTime
	}

	if !date.Equal(today) {
		return nil
	}

	startMin, err := payment.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInternal, err)
	}

	cutoff := now.Hour()*60 + now.Minute() + minLeadMinutes
	if startMin <= cutoff {
		uc.logger.Warn("CreateReservation: start time %s violates lead time for order=%s",
			payment.StartTime, payment.OrderID)
		return ErrInvalidStartTime
	}

	return nil
}

// validateWorkingHours проверяет, что интервал целиком лежит в свободном окне
// эффективного расписания дня
func (uc *UseCase) validateWorkingHours(ctx context.Context, businessID int64, date time.Time, slot domain.Interval) error {
	weekly, err := uc.scheduleRepo.GetDay(ctx, businessID, domain.WeekDayOfDate(date))
	if err != nil && !errors.Is(err, scheduleRepo.ErrEntryNotFound) {
		uc.logger.Error("CreateReservation: failed to get weekly entry: %v", err)
		return fmt.Errorf("%w: failed to get weekly entry: %v", ErrInternal, err)
	}

	exception, err := uc.scheduleRepo.GetException(ctx, businessID, date)
	if err != nil && !errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
		uc.logger.Error("CreateReservation: failed to get exception: %v", err)
		return fmt.Errorf("%w: failed to get exception: %v", ErrInternal, err)
	}

	effectiveDay := domain.ResolveEffectiveDay(weekly, exception)
	if !effectiveDay.IsOpen {
		uc.logger.Warn("CreateReservation: business=%d is closed on %s",
			businessID, date.Format(domain.DateFormat))
		return ErrBusinessClosed
	}

	for _, free := range effectiveDay.FreeIntervals() {
		if free.Contains(slot) {
			return nil
		}
	}

	uc.logger.Warn("CreateReservation: slot %d-%d outside working hours for business=%d on %s",
		slot.Start, slot.End, businessID, date.Format(domain.DateFormat))
	return ErrOutsideWorkingHours
}

// capturePayment подтверждает платеж в шлюзе и фиксирует capture в БД
func (uc *UseCase) capturePayment(ctx context.Context, req *Request) error {
	_, err := uc.paygateClient.Approve(ctx, paygate.ApproveRequest{
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Amount:     req.Amount,
	})
	if err != nil {
		if errors.Is(err, paygate.ErrPaymentDeclined) {
			uc.logger.Warn("CreateReservation: payment declined for order=%s", req.OrderID)
			return ErrPaymentDeclined
		}
		uc.logger.Error("CreateReservation: gateway approve failed for order=%s: %v", req.OrderID, err)
		return fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
	}

	if err := uc.paymentRepo.MarkCaptured(ctx, req.OrderID, req.PaymentKey); err != nil {
		// Деньги списаны, но capture не зафиксирован: повтор с тем же orderID
		// дойдет до шлюза снова, approve у шлюза идемпотентен по paymentKey
		uc.logger.Error("CreateReservation: failed to mark captured for order=%s: %v", req.OrderID, err)
		return fmt.Errorf("%w: failed to mark captured: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateReservation: captured payment for order=%s, amount=%.2f", req.OrderID, req.Amount)
	return nil
}

// occupiedIntervals собирает занятые интервалы дня внутри транзакции,
// строки при этом блокируются (FOR UPDATE)
func (uc *UseCase) occupiedIntervals(ctx context.Context, businessID int64, date time.Time) ([]domain.Interval, error) {
	reservations, err := uc.reservationRepo.GetByBusinessWithFilter(ctx, domain.ReservationsFilter{
		BusinessID: businessID,
		StartDate:  &date,
		EndDate:    &date,
	})
	if err != nil {
		return nil, err
	}

	blocks, err := uc.reservationRepo.ListActiveBlocksInRange(ctx, businessID, date, date)
	if err != nil {
		return nil, err
	}

	occupied := make([]domain.Interval, 0, len(reservations)+len(blocks))
	for _, reservation := range reservations {
		iv, err := reservation.Interval()
		if err != nil {
			return nil, err
		}
		occupied = append(occupied, iv)
	}
	for _, block := range blocks {
		iv, err := block.Interval()
		if err != nil {
			return nil, err
		}
		occupied = append(occupied, iv)
	}

	return occupied, nil
}

// refundAfterConflict возвращает подтвержденный платеж после конфликта слота.
// Неудавшийся возврат только логируется: платеж остается captured без
// бронирования и доступен для повторного возврата по orderID.
func (uc *UseCase) refundAfterConflict(ctx context.Context, orderID string) {
	if err := uc.paygateClient.Refund(ctx, paygate.RefundRequest{
		OrderID: orderID,
		Reason:  "slot conflict",
	}); err != nil {
		uc.logger.Error("CreateReservation: refund failed for order=%s: %v", orderID, err)
		return
	}

	if err := uc.paymentRepo.MarkRefunded(ctx, orderID); err != nil {
		uc.logger.Error("CreateReservation: failed to mark refunded for order=%s: %v", orderID, err)
		return
	}

	uc.logger.Info("CreateReservation: refunded payment for order=%s after slot conflict", orderID)
}

// notifyCreated отправляет уведомление о создании бронирования.
// Ошибка отправки логируется и не влияет на результат
func (uc *UseCase) notifyCreated(ctx context.Context, reservation *domain.Reservation) {
	event := notifier.TransitionEvent{
		ReservationID: reservation.ID,
		BusinessID:    reservation.BusinessID,
		CustomerID:    reservation.CustomerID,
		NewStatus:     string(domain.StatusPending),
		Actor:         string(domain.ActorCustomer),
		OccurredAt:    uc.timeProvider.Now().Format(time.RFC3339),
	}

	if err := uc.notifierClient.NotifyTransition(ctx, event); err != nil {
		uc.logger.Warn("CreateReservation: failed to notify for reservation id=%d: %v", reservation.ID, err)
	}
}

// intervalOf строит минутный интервал из пары HH:MM
func intervalOf(start, end types.TimeString) (domain.Interval, error) {
	startMin, err := start.Minutes()
	if err != nil {
		return domain.Interval{}, err
	}
	endMin, err := end.Minutes()
	if err != nil {
		return domain.Interval{}, err
	}
	return domain.Interval{Start: startMin, End: endMin}, nil
}
