package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	reservationRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/reservation"
	scheduleRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/schedule"
	catalogClient "github.com/petmily/PM-ReservationService/internal/integrations/catalog"
	"github.com/petmily/PM-ReservationService/internal/service/schedule/models"
)

// Service сервис управления расписанием бизнеса: недельный шаблон,
// исключения на даты и административные блокировки времени
type Service struct {
	scheduleRepo    ScheduleRepository
	reservationRepo ReservationRepository
	catalogClient   CatalogClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	reservationRepo ReservationRepository,
	catalogClient CatalogClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:    scheduleRepo,
		reservationRepo: reservationRepo,
		catalogClient:   catalogClient,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// SetWeeklySchedule полностью заменяет недельный шаблон бизнеса
// Шаблон записывается атомарно: либо все семь дней, либо ничего
// Доступно только владельцу или менеджерам бизнеса
func (s *Service) SetWeeklySchedule(ctx context.Context, req *models.SetWeeklyScheduleRequest) ([]models.DayScheduleResponse, error) {
	s.logger.Info("SetWeeklySchedule: replacing schedule for business=%d by user=%d", req.BusinessID, req.UserID)

	if err := s.checkBusinessAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	entries, err := toDomainWeek(req.BusinessID, req.Days)
	if err != nil {
		s.logger.Warn("SetWeeklySchedule: validation failed for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	exceptions, err := toDomainExceptions(req.BusinessID, req.Exceptions)
	if err != nil {
		s.logger.Warn("SetWeeklySchedule: exception validation failed for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	// Шаблон и переданные исключения применяются одной транзакцией:
	// клиент не должен увидеть новое расписание без новых исключений
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.scheduleRepo.ReplaceWeek(ctx, req.BusinessID, entries); err != nil {
			return err
		}
		for _, exception := range exceptions {
			if err := s.scheduleRepo.UpsertException(ctx, exception); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("SetWeeklySchedule: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: SetWeeklySchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetWeeklySchedule: successfully replaced schedule for business=%d", req.BusinessID)
	return models.FromDomainWeek(entries), nil
}

// GetBusinessSchedule возвращает недельный шаблон бизнеса и ближайшие исключения
// Публичный метод, проверка прав не требуется
func (s *Service) GetBusinessSchedule(ctx context.Context, businessID int64) (*models.BusinessScheduleResponse, error) {
	s.logger.Info("GetBusinessSchedule: fetching schedule for business=%d", businessID)

	week, err := s.scheduleRepo.GetWeek(ctx, businessID)
	if err != nil {
		s.logger.Error("GetBusinessSchedule: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetBusinessSchedule - repository error: %v", ErrInternal, err)
	}
	if len(week) == 0 {
		s.logger.Warn("GetBusinessSchedule: no schedule for business=%d", businessID)
		return nil, ErrScheduleNotFound
	}

	today := truncateToDate(s.timeProvider.Now())
	horizon := today.AddDate(0, 0, domain.MaxDisabledDatesDays)

	exceptions, err := s.scheduleRepo.ListExceptionsInRange(ctx, businessID, today, horizon)
	if err != nil {
		s.logger.Error("GetBusinessSchedule: failed to list exceptions for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetBusinessSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessSchedule: fetched schedule for business=%d with %d exceptions", businessID, len(exceptions))
	return &models.BusinessScheduleResponse{
		BusinessID: businessID,
		Week:       models.FromDomainWeek(week),
		Exceptions: models.FromDomainExceptions(exceptions),
	}, nil
}

// SetException устанавливает исключение на конкретную дату
// Повторная установка на ту же дату перезаписывает предыдущее исключение
// Доступно только владельцу или менеджерам бизнеса
func (s *Service) SetException(ctx context.Context, req *models.SetExceptionRequest) error {
	s.logger.Info("SetException: setting exception for business=%d, date=%s by user=%d",
		req.BusinessID, req.Date, req.UserID)

	if err := s.checkBusinessAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return err
	}

	exception, err := toDomainException(req)
	if err != nil {
		s.logger.Warn("SetException: validation failed for business=%d: %v", req.BusinessID, err)
		return err
	}

	if err := s.scheduleRepo.UpsertException(ctx, exception); err != nil {
		s.logger.Error("SetException: repository error for business=%d: %v", req.BusinessID, err)
		return fmt.Errorf("%w: SetException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetException: successfully set exception for business=%d, date=%s", req.BusinessID, req.Date)
	return nil
}

// DeleteException удаляет исключение на дату, возвращая дате недельный шаблон
// Доступно только владельцу или менеджерам бизнеса
func (s *Service) DeleteException(ctx context.Context, req *models.DeleteExceptionRequest) error {
	s.logger.Info("DeleteException: deleting exception for business=%d, date=%s by user=%d",
		req.BusinessID, req.Date, req.UserID)

	if err := s.checkBusinessAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		s.logger.Warn("DeleteException: invalid date=%s for business=%d", req.Date, req.BusinessID)
		return err
	}

	if err := s.scheduleRepo.DeleteException(ctx, req.BusinessID, date); err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			s.logger.Warn("DeleteException: exception not found for business=%d, date=%s", req.BusinessID, req.Date)
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteException: repository error for business=%d: %v", req.BusinessID, err)
		return fmt.Errorf("%w: DeleteException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteException: successfully deleted exception for business=%d, date=%s", req.BusinessID, req.Date)
	return nil
}

// CreateTimeBlock создает административную блокировку интервала
// Интервал не должен пересекаться с активными бронированиями и блокировками;
// проверка и вставка выполняются в одной serializable транзакции
func (s *Service) CreateTimeBlock(ctx context.Context, req *models.CreateTimeBlockRequest) (*models.TimeBlockResponse, error) {
	s.logger.Info("CreateTimeBlock: blocking %s-%s on %s for business=%d by user=%d",
		req.StartTime, req.EndTime, req.Date, req.BusinessID, req.UserID)

	if err := s.checkBusinessAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	block, err := toDomainTimeBlock(req)
	if err != nil {
		s.logger.Warn("CreateTimeBlock: validation failed for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	blockInterval, err := block.Interval()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var created *domain.TimeBlock
	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		occupied, err := s.occupiedIntervals(ctx, req.BusinessID, block.Date)
		if err != nil {
			return err
		}

		for _, iv := range occupied {
			if blockInterval.Overlaps(iv) {
				return ErrTimeConflict
			}
		}

		created, err = s.reservationRepo.CreateBlock(ctx, block)
		return err
	})

	if err != nil {
		if errors.Is(err, ErrTimeConflict) {
			s.logger.Warn("CreateTimeBlock: conflict for business=%d on %s %s-%s",
				req.BusinessID, req.Date, req.StartTime, req.EndTime)
			return nil, ErrTimeConflict
		}
		s.logger.Error("CreateTimeBlock: failed for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: CreateTimeBlock - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateTimeBlock: created block id=%d for business=%d", created.ID, req.BusinessID)
	return models.FromDomainTimeBlock(created), nil
}

// ReleaseTimeBlock снимает блокировку, освобождая интервал для бронирования
// Повторное снятие уже снятой блокировки считается успехом
func (s *Service) ReleaseTimeBlock(ctx context.Context, req *models.ReleaseTimeBlockRequest) error {
	s.logger.Info("ReleaseTimeBlock: releasing block id=%d for business=%d by user=%d",
		req.BlockID, req.BusinessID, req.UserID)

	block, err := s.reservationRepo.GetBlockByID(ctx, req.BlockID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrBlockNotFound) {
			s.logger.Warn("ReleaseTimeBlock: block id=%d not found", req.BlockID)
			return ErrBlockNotFound
		}
		s.logger.Error("ReleaseTimeBlock: repository error for block id=%d: %v", req.BlockID, err)
		return fmt.Errorf("%w: ReleaseTimeBlock - repository error: %v", ErrInternal, err)
	}

	// Чужой блок не раскрываем, отвечаем как на отсутствующий
	if block.BusinessID != req.BusinessID {
		s.logger.Warn("ReleaseTimeBlock: block id=%d belongs to business=%d, not %d",
			req.BlockID, block.BusinessID, req.BusinessID)
		return ErrBlockNotFound
	}

	if err := s.checkBusinessAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return err
	}

	if !block.IsActive() {
		s.logger.Info("ReleaseTimeBlock: block id=%d already released", req.BlockID)
		return nil
	}

	if err := s.reservationRepo.ReleaseBlock(ctx, req.BlockID); err != nil {
		if errors.Is(err, reservationRepo.ErrBlockNotFound) {
			// Блок сняли параллельно, результат тот же
			return nil
		}
		s.logger.Error("ReleaseTimeBlock: repository error for block id=%d: %v", req.BlockID, err)
		return fmt.Errorf("%w: ReleaseTimeBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReleaseTimeBlock: successfully released block id=%d", req.BlockID)
	return nil
}

// Вспомогательные методы

// occupiedIntervals собирает интервалы активных бронирований и блокировок на дату
func (s *Service) occupiedIntervals(ctx context.Context, businessID int64, date time.Time) ([]domain.Interval, error) {
	reservations, err := s.reservationRepo.GetByBusinessWithFilter(ctx, domain.ReservationsFilter{
		BusinessID: businessID,
		StartDate:  &date,
		EndDate:    &date,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	blocks, err := s.reservationRepo.ListActiveBlocksInRange(ctx, businessID, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
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
			return nil
		}
	}

	s.logger.Warn("checkBusinessAccess: user=%d has no access to business=%d", userID, businessID)
	return ErrAccessDenied
}

// truncateToDate обнуляет компонент времени, оставляя только дату
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
