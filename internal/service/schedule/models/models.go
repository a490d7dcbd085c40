package models

import (
	"time"

	"github.com/petmily/PM-ReservationService/internal/domain"
)

// Request модели

// DayScheduleInput один день недельного шаблона в запросе
type DayScheduleInput struct {
	Day        string  `json:"day"` // monday, tuesday, ...
	IsDayOff   bool    `json:"isDayOff,omitempty"`
	StartTime  string  `json:"startTime,omitempty"` // "09:00"
	EndTime    string  `json:"endTime,omitempty"`   // "18:00"
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

// ExceptionInput исключение на дату в запросе замены расписания
type ExceptionInput struct {
	Date      string  `json:"date"` // "2025-10-15"
	IsDayOff  bool    `json:"isDayOff,omitempty"`
	StartTime string  `json:"startTime,omitempty"`
	EndTime   string  `json:"endTime,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

// SetWeeklyScheduleRequest запрос на полную замену недельного шаблона.
// Шаблон задается только целиком: ровно по одной записи на каждый день недели.
// Исключения, если переданы, применяются в той же транзакции.
type SetWeeklyScheduleRequest struct {
	UserID     int64              `json:"userId"`
	BusinessID int64              `json:"businessId"`
	Days       []DayScheduleInput `json:"days"`
	Exceptions []ExceptionInput   `json:"exceptions,omitempty"`
}

// SetExceptionRequest запрос на установку исключения на дату
type SetExceptionRequest struct {
	UserID     int64   `json:"userId"`
	BusinessID int64   `json:"businessId"`
	Date       string  `json:"date"` // "2025-10-15"
	IsDayOff   bool    `json:"isDayOff,omitempty"`
	StartTime  string  `json:"startTime,omitempty"`
	EndTime    string  `json:"endTime,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

// DeleteExceptionRequest запрос на удаление исключения на дату
type DeleteExceptionRequest struct {
	UserID     int64  `json:"userId"`
	BusinessID int64  `json:"businessId"`
	Date       string `json:"date"`
}

// CreateTimeBlockRequest запрос на блокировку интервала времени
type CreateTimeBlockRequest struct {
	UserID     int64  `json:"userId"`
	BusinessID int64  `json:"businessId"`
	Date       string `json:"date"`      // "2025-10-15"
	StartTime  string `json:"startTime"` // "14:00"
	EndTime    string `json:"endTime"`   // "16:00"
	Reason     string `json:"reason,omitempty"`
}

// ReleaseTimeBlockRequest запрос на снятие блокировки
type ReleaseTimeBlockRequest struct {
	UserID     int64 `json:"userId"`
	BusinessID int64 `json:"businessId"`
	BlockID    int64 `json:"blockId"`
}

// Response модели

// DayScheduleResponse один день недельного шаблона в ответе
type DayScheduleResponse struct {
	Day        string  `json:"day"`
	IsDayOff   bool    `json:"isDayOff"`
	StartTime  string  `json:"startTime,omitempty"`
	EndTime    string  `json:"endTime,omitempty"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

// ExceptionResponse исключение на дату в ответе
type ExceptionResponse struct {
	Date      string  `json:"date"`
	IsDayOff  bool    `json:"isDayOff"`
	StartTime string  `json:"startTime,omitempty"`
	EndTime   string  `json:"endTime,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

// BusinessScheduleResponse недельный шаблон бизнеса с ближайшими исключениями
type BusinessScheduleResponse struct {
	BusinessID int64                 `json:"businessId"`
	Week       []DayScheduleResponse `json:"week"`
	Exceptions []ExceptionResponse   `json:"exceptions"`
}

// TimeBlockResponse блокировка времени в ответе
type TimeBlockResponse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessId"`
	Date       string    `json:"date"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Методы конвертации

// FromDomainWeek конвертирует недельный шаблон в DTO, дни идут с понедельника
func FromDomainWeek(entries []*domain.WeeklyScheduleEntry) []DayScheduleResponse {
	byDay := make(map[domain.WeekDay]*domain.WeeklyScheduleEntry, len(entries))
	for _, entry := range entries {
		byDay[entry.Day] = entry
	}

	week := make([]DayScheduleResponse, 0, len(entries))
	for day := domain.Monday; day <= domain.Sunday; day++ {
		entry, ok := byDay[day]
		if !ok {
			continue
		}
		week = append(week, fromDomainEntry(entry))
	}
	return week
}

func fromDomainEntry(entry *domain.WeeklyScheduleEntry) DayScheduleResponse {
	resp := DayScheduleResponse{
		Day:      entry.Day.String(),
		IsDayOff: entry.IsDayOff,
	}
	if entry.IsDayOff {
		return resp
	}

	resp.StartTime = entry.StartTime.String()
	resp.EndTime = entry.EndTime.String()
	if entry.HasBreak() {
		breakStart := entry.BreakStart.String()
		breakEnd := entry.BreakEnd.String()
		resp.BreakStart = &breakStart
		resp.BreakEnd = &breakEnd
	}
	return resp
}

// FromDomainExceptions конвертирует список исключений в DTO
func FromDomainExceptions(exceptions []*domain.ExceptionDate) []ExceptionResponse {
	resp := make([]ExceptionResponse, 0, len(exceptions))
	for _, exception := range exceptions {
		item := ExceptionResponse{
			Date:     exception.Date.Format(domain.DateFormat),
			IsDayOff: exception.IsDayOff,
			Reason:   exception.Reason,
		}
		if !exception.IsDayOff {
			item.StartTime = exception.StartTime.String()
			item.EndTime = exception.EndTime.String()
		}
		resp = append(resp, item)
	}
	return resp
}

// FromDomainTimeBlock конвертирует блокировку времени в DTO
func FromDomainTimeBlock(block *domain.TimeBlock) *TimeBlockResponse {
	if block == nil {
		return nil
	}
	return &TimeBlockResponse{
		ID:         block.ID,
		BusinessID: block.BusinessID,
		Date:       block.Date.Format(domain.DateFormat),
		StartTime:  block.StartTime.String(),
		EndTime:    block.EndTime.String(),
		Reason:     block.Reason,
		CreatedAt:  block.CreatedAt,
	}
}
