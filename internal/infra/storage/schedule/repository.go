package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/pkg/dbmetrics"
	"github.com/petmily/PM-ReservationService/pkg/psqlbuilder"
	"github.com/petmily/PM-ReservationService/pkg/types"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий расписаний: недельный шаблон и исключения на даты
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ReplaceWeek полностью заменяет недельный шаблон бизнеса.
// Вызывается внутри транзакции (txManager.Do), чтобы неделя записывалась
// атомарно - частично применённое расписание недопустимо.
func (r *Repository) ReplaceWeek(ctx context.Context, businessID int64, entries []*domain.WeeklyScheduleEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("weekly_schedules").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeek - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeek - execute delete: %v", ErrExecQuery, err)
	}

	insertBuilder := psqlbuilder.Insert("weekly_schedules").
		Columns(
			"business_id",
			"day_of_week",
			"start_time",
			"end_time",
			"break_start",
			"break_end",
			"is_day_off",
		)

	for _, entry := range entries {
		insertBuilder = insertBuilder.Values(
			businessID,
			int(entry.Day),
			nullableTime(entry.StartTime),
			nullableTime(entry.EndTime),
			nullableTime(entry.BreakStart),
			nullableTime(entry.BreakEnd),
			entry.IsDayOff,
		)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeek - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeek - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetWeek получает недельный шаблон бизнеса, отсортированный по дню недели
func (r *Repository) GetWeek(ctx context.Context, businessID int64) ([]*domain.WeeklyScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_id",
		"day_of_week",
		"start_time",
		"end_time",
		"break_start",
		"break_end",
		"is_day_off",
		"updated_at",
	).
		From("weekly_schedules").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeek - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeek - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.WeeklyScheduleEntry, 0, domain.DaysPerWeek)
	for rows.Next() {
		entry, err := scanWeeklyEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeek - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// GetDay получает запись недельного шаблона на конкретный день недели
// Возвращает ErrEntryNotFound, если шаблон для бизнеса не настроен
func (r *Repository) GetDay(ctx context.Context, businessID int64, day domain.WeekDay) (*domain.WeeklyScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_id",
		"day_of_week",
		"start_time",
		"end_time",
		"break_start",
		"break_end",
		"is_day_off",
		"updated_at",
	).
		From("weekly_schedules").
		Where(squirrel.Eq{"business_id": businessID, "day_of_week": int(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%w: GetDay - rows error: %v", ErrScanRow, err)
		}
		return nil, ErrEntryNotFound
	}

	return scanWeeklyEntry(rows)
}

// UpsertException создает или обновляет исключение на дату (business_id, date)
func (r *Repository) UpsertException(ctx context.Context, exception *domain.ExceptionDate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("exception_dates").
		Columns(
			"business_id",
			"date",
			"start_time",
			"end_time",
			"is_day_off",
			"reason",
		).
		Values(
			exception.BusinessID,
			exception.Date,
			nullableTime(exception.StartTime),
			nullableTime(exception.EndTime),
			exception.IsDayOff,
			exception.Reason,
		).
		Suffix(`ON CONFLICT (business_id, date) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_day_off = EXCLUDED.is_day_off,
			reason = EXCLUDED.reason,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertException - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertException - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetException получает исключение на конкретную дату
// Отсутствие исключения - штатная ситуация, возвращается ErrExceptionNotFound
func (r *Repository) GetException(ctx context.Context, businessID int64, date time.Time) (*domain.ExceptionDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_id",
		"date",
		"start_time",
		"end_time",
		"is_day_off",
		"reason",
		"updated_at",
	).
		From("exception_dates").
		Where(squirrel.Eq{"business_id": businessID, "date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetException - build select query: %v", ErrBuildQuery, err)
	}

	var exception domain.ExceptionDate
	var startTime, endTime sql.NullString
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exception.BusinessID,
		&exception.Date,
		&startTime,
		&endTime,
		&exception.IsDayOff,
		&exception.Reason,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetException - scan exception: %v", ErrScanRow, err)
	}

	exception.StartTime = timeStringFromNull(startTime)
	exception.EndTime = timeStringFromNull(endTime)
	exception.UpdatedAt = updatedAt.Time

	return &exception, nil
}

// ListExceptionsInRange получает исключения бизнеса за период [from, to]
func (r *Repository) ListExceptionsInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.ExceptionDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_id",
		"date",
		"start_time",
		"end_time",
		"is_day_off",
		"reason",
		"updated_at",
	).
		From("exception_dates").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptionsInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptionsInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.ExceptionDate, 0)
	for rows.Next() {
		var exception domain.ExceptionDate
		var startTime, endTime sql.NullString
		var updatedAt sql.NullTime

		err := rows.Scan(
			&exception.BusinessID,
			&exception.Date,
			&startTime,
			&endTime,
			&exception.IsDayOff,
			&exception.Reason,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListExceptionsInRange - scan row: %v", ErrScanRow, err)
		}

		exception.StartTime = timeStringFromNull(startTime)
		exception.EndTime = timeStringFromNull(endTime)
		exception.UpdatedAt = updatedAt.Time

		exceptions = append(exceptions, &exception)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExceptionsInRange - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}

// DeleteException удаляет исключение на дату, возвращая день к недельному шаблону
func (r *Repository) DeleteException(ctx context.Context, businessID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("exception_dates").
		Where(squirrel.Eq{"business_id": businessID, "date": date}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteException - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteException - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteException - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

// scanWeeklyEntry сканирует одну строку недельного шаблона
func scanWeeklyEntry(rows *sql.Rows) (*domain.WeeklyScheduleEntry, error) {
	var entry domain.WeeklyScheduleEntry
	var day int
	var startTime, endTime, breakStart, breakEnd sql.NullString
	var updatedAt sql.NullTime

	err := rows.Scan(
		&entry.BusinessID,
		&day,
		&startTime,
		&endTime,
		&breakStart,
		&breakEnd,
		&entry.IsDayOff,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: scan weekly entry: %v", ErrScanRow, err)
	}

	entry.Day = domain.WeekDay(day)
	entry.StartTime = timeStringFromNull(startTime)
	entry.EndTime = timeStringFromNull(endTime)
	entry.BreakStart = timeStringFromNull(breakStart)
	entry.BreakEnd = timeStringFromNull(breakEnd)
	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}

// nullableTime конвертирует TimeString в значение для БД (NULL для пустого)
func nullableTime(t types.TimeString) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.String()
}

// timeStringFromNull конвертирует nullable колонку TIME в TimeString
func timeStringFromNull(v sql.NullString) types.TimeString {
	if !v.Valid {
		return ""
	}
	raw := v.String
	// Postgres TIME приходит как "15:04:05" - обрезаем секунды
	if len(raw) >= 5 {
		raw = raw[:5]
	}
	return types.TimeString(raw)
}
