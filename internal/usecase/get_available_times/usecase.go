package get_available_times

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	scheduleRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/schedule"
	catalogClient "github.com/petmily/PM-ReservationService/internal/integrations/catalog"
	"github.com/petmily/PM-ReservationService/pkg/types"
)

// UseCase use case расчета доступных времен начала услуги на дату.
// Чистая функция над четырьмя источниками: недельный шаблон, исключение
// на дату, активные бронирования и блокировки времени.
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

// Execute выполняет use case расчета доступных времен
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableTimes: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableTimes: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты: не в прошлом и внутри окна бронирования
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableTimes: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем услугу: длительность задает размер слота
	service, err := uc.getService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// 5. Собираем эффективное расписание дня: исключение важнее шаблона
	effectiveDay, err := uc.resolveEffectiveDay(ctx, req.BusinessID, req.Date)
	if err != nil {
		return nil, err
	}

	if !effectiveDay.IsOpen {
		uc.logger.Info("GetAvailableTimes: business=%d is closed on %s",
			req.BusinessID, req.Date.Format(domain.DateFormat))
		return emptyResponse(req, service.DurationMinutes), nil
	}

	// 6. Собираем занятые интервалы: активные бронирования и блокировки
	occupied, err := uc.occupiedIntervals(ctx, req.BusinessID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableTimes: failed to collect occupied intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to collect occupied intervals: %v", ErrInternal, err)
	}

	// 7. Вычитаем занятое из рабочих окон и нарезаем слоты
	free := domain.SubtractIntervals(effectiveDay.FreeIntervals(), occupied)

	times, err := slotStartTimes(free, service.DurationMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableTimes: failed to build slots: %v", err)
		return nil, fmt.Errorf("%w: failed to build slots: %v", ErrInternal, err)
	}

	// 8. На сегодня отсекаем времена, до которых не успеть
	if isSameDay(req.Date, now) {
		times = filterByLeadTime(times, now, service.MinLeadMinutes)
	}

	uc.logger.Info("GetAvailableTimes: %d times for business=%d, service=%d, date=%s",
		len(times), req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		Date:            req.Date,
		DurationMinutes: service.DurationMinutes,
		Times:           times,
	}, nil
}

// getService получает услугу из каталога с маппингом ошибок
func (uc *UseCase) getService(ctx context.Context, businessID, serviceID int64) (*catalogClient.Service, error) {
	service, err := uc.catalogClient.GetService(ctx, businessID, serviceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableTimes: service id=%d not found in business=%d", serviceID, businessID)
			return nil, ErrServiceNotFound
		}
		if errors.Is(err, catalogClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableTimes: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		if errors.Is(err, catalogClient.ErrUnavailable) {
			uc.logger.Error("GetAvailableTimes: catalog unavailable: %v", err)
			return nil, ErrCatalogUnavailable
		}
		uc.logger.Error("GetAvailableTimes: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.DurationMinutes < domain.MinServiceDurationMinutes ||
		service.DurationMinutes > domain.MaxServiceDurationMinutes {
		uc.logger.Error("GetAvailableTimes: service id=%d has invalid duration=%d",
			serviceID, service.DurationMinutes)
		return nil, fmt.Errorf("%w: service has invalid duration", ErrInternal)
	}

	return service, nil
}

// resolveEffectiveDay собирает рабочие часы на дату из шаблона и исключения
func (uc *UseCase) resolveEffectiveDay(ctx context.Context, businessID int64, date time.Time) (domain.EffectiveDay, error) {
	weekly, err := uc.scheduleRepo.GetDay(ctx, businessID, domain.WeekDayOfDate(date))
	if err != nil && !errors.Is(err, scheduleRepo.ErrEntryNotFound) {
		uc.logger.Error("GetAvailableTimes: failed to get weekly entry: %v", err)
		return domain.EffectiveDay{}, fmt.Errorf("%w: failed to get weekly entry: %v", ErrInternal, err)
	}

	exception, err := uc.scheduleRepo.GetException(ctx, businessID, date)
	if err != nil && !errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
		uc.logger.Error("GetAvailableTimes: failed to get exception: %v", err)
		return domain.EffectiveDay{}, fmt.Errorf("%w: failed to get exception: %v", ErrInternal, err)
	}

	return domain.ResolveEffectiveDay(weekly, exception), nil
}

func emptyResponse(req *Request, durationMinutes int) *Response {
	return &Response{
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		Date:            req.Date,
		DurationMinutes: durationMinutes,
		Times:           []types.TimeString{},
	}
}
