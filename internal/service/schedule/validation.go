package schedule

import (
	"fmt"
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/internal/service/schedule/models"
	"github.com/petmily/PM-ReservationService/pkg/types"
)

// toDomainWeek валидирует недельный шаблон и конвертирует его в domain модели.
// Шаблон принимается только целиком: ровно одна запись на каждый день недели.
func toDomainWeek(businessID int64, days []models.DayScheduleInput) ([]*domain.WeeklyScheduleEntry, error) {
	if len(days) != domain.DaysPerWeek {
		return nil, fmt.Errorf("%w: schedule must contain exactly %d days, got %d",
			ErrInvalidInput, domain.DaysPerWeek, len(days))
	}

	seen := make(map[domain.WeekDay]bool, domain.DaysPerWeek)
	entries := make([]*domain.WeeklyScheduleEntry, 0, domain.DaysPerWeek)

	for _, input := range days {
		day, err := domain.ParseWeekDay(input.Day)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if seen[day] {
			return nil, fmt.Errorf("%w: duplicate day %s", ErrInvalidInput, day)
		}
		seen[day] = true

		entry := &domain.WeeklyScheduleEntry{
			BusinessID: businessID,
			Day:        day,
			IsDayOff:   input.IsDayOff,
		}

		if input.IsDayOff {
			entries = append(entries, entry)
			continue
		}

		window, err := parseWindow(input.StartTime, input.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: day %s: %v", ErrInvalidInput, day, err)
		}
		entry.StartTime = types.TimeString(input.StartTime)
		entry.EndTime = types.TimeString(input.EndTime)

		if (input.BreakStart == nil) != (input.BreakEnd == nil) {
			return nil, fmt.Errorf("%w: day %s: break requires both start and end", ErrInvalidInput, day)
		}
		if input.BreakStart != nil {
			breakIv, err := parseWindow(*input.BreakStart, *input.BreakEnd)
			if err != nil {
				return nil, fmt.Errorf("%w: day %s: break: %v", ErrInvalidInput, day, err)
			}
			if !window.Contains(breakIv) {
				return nil, fmt.Errorf("%w: day %s: break must fit inside working hours", ErrInvalidInput, day)
			}
			entry.BreakStart = types.TimeString(*input.BreakStart)
			entry.BreakEnd = types.TimeString(*input.BreakEnd)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// toDomainException валидирует запрос исключения и конвертирует его в domain модель
func toDomainException(req *models.SetExceptionRequest) (*domain.ExceptionDate, error) {
	return buildException(req.BusinessID, req.Date, req.IsDayOff, req.StartTime, req.EndTime, req.Reason)
}

// toDomainExceptions валидирует список исключений из запроса замены расписания
func toDomainExceptions(businessID int64, inputs []models.ExceptionInput) ([]*domain.ExceptionDate, error) {
	exceptions := make([]*domain.ExceptionDate, 0, len(inputs))
	for _, input := range inputs {
		exception, err := buildException(businessID, input.Date, input.IsDayOff, input.StartTime, input.EndTime, input.Reason)
		if err != nil {
			return nil, err
		}
		exceptions = append(exceptions, exception)
	}
	return exceptions, nil
}

func buildException(businessID int64, rawDate string, isDayOff bool, start, end string, reason *string) (*domain.ExceptionDate, error) {
	date, err := parseDate(rawDate)
	if err != nil {
		return nil, err
	}

	if reason != nil && len(*reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	exception := &domain.ExceptionDate{
		BusinessID: businessID,
		Date:       date,
		IsDayOff:   isDayOff,
		Reason:     reason,
	}

	if isDayOff {
		return exception, nil
	}

	if _, err := parseWindow(start, end); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	exception.StartTime = types.TimeString(start)
	exception.EndTime = types.TimeString(end)

	return exception, nil
}

// toDomainTimeBlock валидирует запрос блокировки и конвертирует его в domain модель
func toDomainTimeBlock(req *models.CreateTimeBlockRequest) (*domain.TimeBlock, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	if _, err := parseWindow(req.StartTime, req.EndTime); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if len(req.Reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return &domain.TimeBlock{
		BusinessID: req.BusinessID,
		Date:       date,
		StartTime:  types.TimeString(req.StartTime),
		EndTime:    types.TimeString(req.EndTime),
		Reason:     req.Reason,
	}, nil
}

// parseWindow парсит пару HH:MM строк в валидный интервал
func parseWindow(start, end string) (domain.Interval, error) {
	startTS := types.TimeString(start)
	endTS := types.TimeString(end)

	if err := startTS.Validate(); err != nil {
		return domain.Interval{}, fmt.Errorf("invalid start time %q", start)
	}
	if err := endTS.Validate(); err != nil {
		return domain.Interval{}, fmt.Errorf("invalid end time %q", end)
	}

	startMin, err := startTS.Minutes()
	if err != nil {
		return domain.Interval{}, fmt.Errorf("invalid start time %q", start)
	}
	endMin, err := endTS.Minutes()
	if err != nil {
		return domain.Interval{}, fmt.Errorf("invalid end time %q", end)
	}

	iv := domain.Interval{Start: startMin, End: endMin}
	if !iv.IsValid() {
		return domain.Interval{}, fmt.Errorf("start time %q must be before end time %q", start, end)
	}
	return iv, nil
}

// parseDate парсит дату формата YYYY-MM-DD
func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, raw)
	}
	return date, nil
}
