package get_disabled_dates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/internal/integrations/catalog"
)

// UseCase use case списка полностью недоступных дат для услуги.
// Используется клиентскими календарями, чтобы сразу гасить даты, на которые
// нет смысла запрашивать свободные времена.
type UseCase struct {
	scheduleRepo    ScheduleRepository
	reservationRepo ReservationRepository
	catalogClient   CatalogClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	reservationRepo ReservationRepository,
	catalogClient CatalogClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		reservationRepo: reservationRepo,
		catalogClient:   catalogClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case списка недоступных дат
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDisabledDates: service=%d, days=%d", req.ServiceID, req.Days)

	// 1. Валидация входных данных
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	days := req.Days
	if days == 0 {
		days = domain.DefaultDisabledDatesDays
	}
	if days < 0 || days > domain.MaxDisabledDatesDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, domain.MaxDisabledDatesDays)
	}

	// 2. Услуга: определяет бизнес и длительность слота
	service, err := uc.catalogClient.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrServiceNotFound):
			uc.logger.Warn("GetDisabledDates: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, catalog.ErrUnavailable):
			uc.logger.Error("GetDisabledDates: catalog unavailable: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		default:
			uc.logger.Error("GetDisabledDates: failed to get service id=%d: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
	}
	if service.DurationMinutes < domain.MinServiceDurationMinutes || service.DurationMinutes > domain.MaxServiceDurationMinutes {
		return nil, fmt.Errorf("%w: service duration %d is out of range", ErrInvalidInput, service.DurationMinutes)
	}
	businessID := service.BusinessID

	// 3. Окно просмотра: с сегодняшнего дня включительно
	now := uc.timeProvider.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, days-1)

	// 4. Недельный шаблон
	week, err := uc.scheduleRepo.GetWeek(ctx, businessID)
	if err != nil {
		uc.logger.Error("GetDisabledDates: failed to get week for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get week: %v", ErrInternal, err)
	}
	weekByDay := make(map[domain.WeekDay]*domain.WeeklyScheduleEntry, len(week))
	for _, entry := range week {
		weekByDay[entry.Day] = entry
	}

	// 5. Исключения, бронирования и блокировки всего окна
	exceptions, err := uc.scheduleRepo.ListExceptionsInRange(ctx, businessID, from, to)
	if err != nil {
		uc.logger.Error("GetDisabledDates: failed to list exceptions for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to list exceptions: %v", ErrInternal, err)
	}
	exceptionByDate := make(map[string]*domain.ExceptionDate, len(exceptions))
	for _, exception := range exceptions {
		exceptionByDate[exception.Date.Format(domain.DateFormat)] = exception
	}

	reservations, err := uc.reservationRepo.GetByBusinessWithFilter(ctx, domain.ReservationsFilter{
		BusinessID: businessID,
		StartDate:  &from,
		EndDate:    &to,
	})
	if err != nil {
		uc.logger.Error("GetDisabledDates: failed to get reservations for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	blocks, err := uc.reservationRepo.ListActiveBlocksInRange(ctx, businessID, from, to)
	if err != nil {
		uc.logger.Error("GetDisabledDates: failed to get blocks for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get blocks: %v", ErrInternal, err)
	}

	occupiedByDate := make(map[string][]domain.Interval)
	for _, reservation := range reservations {
		if iv, err := reservation.Interval(); err == nil {
			key := reservation.Date.Format(domain.DateFormat)
			occupiedByDate[key] = append(occupiedByDate[key], iv)
		}
	}
	for _, block := range blocks {
		if iv, err := block.Interval(); err == nil {
			key := block.Date.Format(domain.DateFormat)
			occupiedByDate[key] = append(occupiedByDate[key], iv)
		}
	}

	// 6. Дата недоступна, если день закрыт или ни один слот длительности
	// услуги не помещается в оставшееся свободное время
	disabled := make([]string, 0)
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		key := date.Format(domain.DateFormat)

		effectiveDay := domain.ResolveEffectiveDay(weekByDay[domain.WeekDayOfDate(date)], exceptionByDate[key])
		if !effectiveDay.IsOpen {
			disabled = append(disabled, key)
			continue
		}

		free := domain.SubtractIntervals(effectiveDay.FreeIntervals(), occupiedByDate[key])
		if !slotFits(free, service.DurationMinutes) {
			disabled = append(disabled, key)
		}
	}

	uc.logger.Info("GetDisabledDates: %d disabled dates for service=%d in %d days",
		len(disabled), req.ServiceID, days)

	return &Response{
		ServiceID:     req.ServiceID,
		BusinessID:    businessID,
		From:          from.Format(domain.DateFormat),
		To:            to.Format(domain.DateFormat),
		DisabledDates: disabled,
	}, nil
}

// slotFits сообщает, помещается ли хотя бы один слот заданной длительности
// в один из свободных интервалов
func slotFits(free []domain.Interval, durationMinutes int) bool {
	for _, iv := range free {
		if len(domain.SlotStarts(iv, durationMinutes)) > 0 {
			return true
		}
	}
	return false
}
