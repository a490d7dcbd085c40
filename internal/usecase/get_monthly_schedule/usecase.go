package get_monthly_schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
)

// UseCase use case месячной сводки расписания.
// Для каждого дня месяца считается дешевая сводка без нарезки слотов:
// точная сетка времен строится только при запросе конкретного дня.
type UseCase struct {
	scheduleRepo    ScheduleRepository
	reservationRepo ReservationRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	reservationRepo ReservationRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// Execute выполняет use case месячной сводки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetMonthlySchedule: business=%d, month=%d-%02d", req.BusinessID, req.Year, req.Month)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetMonthlySchedule: validation failed: %v", err)
		return nil, err
	}

	monthStart := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	// 2. Недельный шаблон: одна запись на каждый день недели
	week, err := uc.scheduleRepo.GetWeek(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetMonthlySchedule: failed to get week for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get week: %v", ErrInternal, err)
	}
	weekByDay := make(map[domain.WeekDay]*domain.WeeklyScheduleEntry, len(week))
	for _, entry := range week {
		weekByDay[entry.Day] = entry
	}

	// 3. Исключения месяца
	exceptions, err := uc.scheduleRepo.ListExceptionsInRange(ctx, req.BusinessID, monthStart, monthEnd)
	if err != nil {
		uc.logger.Error("GetMonthlySchedule: failed to list exceptions for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to list exceptions: %v", ErrInternal, err)
	}
	exceptionByDate := make(map[string]*domain.ExceptionDate, len(exceptions))
	for _, exception := range exceptions {
		exceptionByDate[exception.Date.Format(domain.DateFormat)] = exception
	}

	// 4. Активные бронирования и блокировки месяца одним запросом на каждую таблицу
	reservations, err := uc.reservationRepo.GetByBusinessWithFilter(ctx, domain.ReservationsFilter{
		BusinessID: req.BusinessID,
		StartDate:  &monthStart,
		EndDate:    &monthEnd,
	})
	if err != nil {
		uc.logger.Error("GetMonthlySchedule: failed to get reservations for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	blocks, err := uc.reservationRepo.ListActiveBlocksInRange(ctx, req.BusinessID, monthStart, monthEnd)
	if err != nil {
		uc.logger.Error("GetMonthlySchedule: failed to get blocks for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get blocks: %v", ErrInternal, err)
	}

	reservationsByDate := groupReservations(reservations)
	blocksByDate := groupBlocks(blocks)

	// 5. Считаем сводку по каждому дню
	days := make([]DaySummary, 0, monthEnd.Day())
	for date := monthStart; !date.After(monthEnd); date = date.AddDate(0, 0, 1) {
		key := date.Format(domain.DateFormat)
		days = append(days, uc.summarizeDay(
			key,
			weekByDay[domain.WeekDayOfDate(date)],
			exceptionByDate[key],
			reservationsByDate[key],
			blocksByDate[key],
		))
	}

	uc.logger.Info("GetMonthlySchedule: built %d day summaries for business=%d", len(days), req.BusinessID)

	return &Response{
		BusinessID: req.BusinessID,
		Year:       req.Year,
		Month:      req.Month,
		Days:       days,
	}, nil
}

// summarizeDay строит сводку одного дня из шаблона, исключения и занятости
func (uc *UseCase) summarizeDay(
	date string,
	weekly *domain.WeeklyScheduleEntry,
	exception *domain.ExceptionDate,
	reservations []*domain.Reservation,
	blocks []*domain.TimeBlock,
) DaySummary {
	summary := DaySummary{
		Date:             date,
		ReservationCount: len(reservations),
		HasReservations:  len(reservations) > 0,
		BlockCount:       len(blocks),
	}

	effectiveDay := domain.ResolveEffectiveDay(weekly, exception)
	if !effectiveDay.IsOpen {
		summary.IsDayOff = true
		return summary
	}

	occupied := make([]domain.Interval, 0, len(reservations)+len(blocks))
	for _, reservation := range reservations {
		if iv, err := reservation.Interval(); err == nil {
			occupied = append(occupied, iv)
		}
	}
	for _, block := range blocks {
		if iv, err := block.Interval(); err == nil {
			occupied = append(occupied, iv)
		}
	}

	free := domain.SubtractIntervals(effectiveDay.FreeIntervals(), occupied)
	summary.IsFullyBlocked = domain.TotalDuration(free) == 0

	return summary
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.Year < 2000 || req.Year > 2200 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidMonth, req.Year)
	}

	if req.Month < time.January || req.Month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidMonth, int(req.Month))
	}

	return nil
}

// groupReservations группирует активные бронирования по дате
func groupReservations(reservations []*domain.Reservation) map[string][]*domain.Reservation {
	grouped := make(map[string][]*domain.Reservation)
	for _, reservation := range reservations {
		key := reservation.Date.Format(domain.DateFormat)
		grouped[key] = append(grouped[key], reservation)
	}
	return grouped
}

// groupBlocks группирует активные блокировки по дате
func groupBlocks(blocks []*domain.TimeBlock) map[string][]*domain.TimeBlock {
	grouped := make(map[string][]*domain.TimeBlock)
	for _, block := range blocks {
		key := block.Date.Format(domain.DateFormat)
		grouped[key] = append(grouped[key], block)
	}
	return grouped
}
