package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/pkg/dbmetrics"
	"github.com/petmily/PM-ReservationService/pkg/psqlbuilder"
)

// reservationColumns колонки таблицы reservations в порядке сканирования
var reservationColumns = []string{
	"id",
	"order_id",
	"business_id",
	"service_id",
	"customer_id",
	"pet_id",
	"reservation_date",
	"start_time",
	"end_time",
	"status",
	"service_name",
	"price",
	"notes",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий занятых интервалов: бронирования и административные блоки.
// Является единственным источником истины о занятости расписания бизнеса.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается только внутри сериализуемой транзакции после проверки занятости:
// проверка пересечений и вставка должны быть одной атомарной операцией.
// order_id имеет уникальный индекс - повторная вставка того же платежа
// возвращает ErrDuplicateOrderID вместо второго бронирования.
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"order_id",
			"business_id",
			"service_id",
			"customer_id",
			"pet_id",
			"reservation_date",
			"start_time",
			"end_time",
			"status",
			"service_name",
			"price",
			"notes",
		).
		Values(
			reservation.OrderID,
			reservation.BusinessID,
			reservation.ServiceID,
			reservation.CustomerID,
			reservation.PetID,
			reservation.Date,
			reservation.StartTime,
			reservation.EndTime,
			reservation.Status,
			reservation.ServiceName,
			reservation.Price,
			reservation.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&reservation.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "reservations_order_id_key") {
			return nil, ErrDuplicateOrderID
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	reservation.CreatedAt = createdAt.Time
	reservation.UpdatedAt = updatedAt.Time

	return reservation, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanReservation(executor.QueryRowContext(ctx, query, args...))
}

// GetByOrderID получает бронирование по идентификатору заказа.
// Используется идемпотентным путем создания: повторный approve-колбэк
// с тем же order_id должен вернуть уже созданное бронирование.
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"order_id": orderID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrderID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanReservation(executor.QueryRowContext(ctx, query, args...))
}

// GetByCustomerID получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("reservation_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetByBusinessWithFilter получает бронирования бизнеса с гибкой фильтрацией.
// Внутри транзакции при запросе на конкретную дату добавляет FOR UPDATE:
// это сериализует конкурирующие reserve() по одному бизнесу, не блокируя
// остальные бизнесы.
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"reservation_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"reservation_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	singleDate := filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate)

	if singleDate {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("reservation_date DESC, start_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && singleDate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// UpdateStatus обновляет статус бронирования.
// Валидация допустимости перехода выполняется на уровне сервиса по таблице
// переходов; репозиторий только записывает новое значение.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// Cancel переводит бронирование в canceled с указанием инициатора и причины.
// Запись остается в таблице для истории; интервал сразу перестает учитываться
// в запросах занятости.
func (r *Repository) Cancel(ctx context.Context, id int64, actor domain.Actor, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCanceled).
		Set("cancellation_reason", reason).
		Set("cancelled_by", string(actor)).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// CreateBlock создает административный блок.
// Проверка пересечений с бронированиями и другими блоками выполняется
// usecase-ом внутри той же транзакции, что и вставка.
func (r *Repository) CreateBlock(ctx context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_blocks").
		Columns(
			"business_id",
			"block_date",
			"start_time",
			"end_time",
			"reason",
		).
		Values(
			block.BusinessID,
			block.Date,
			block.StartTime,
			block.EndTime,
			block.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlock - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlock - execute insert: %v", ErrExecQuery, err)
	}

	block.CreatedAt = createdAt.Time
	return block, nil
}

// GetBlockByID получает административный блок по ID
func (r *Repository) GetBlockByID(ctx context.Context, id int64) (*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"block_date",
		"start_time",
		"end_time",
		"reason",
		"created_at",
		"released_at",
	).
		From("time_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockByID - build select query: %v", ErrBuildQuery, err)
	}

	var block domain.TimeBlock
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&block.ID,
		&block.BusinessID,
		&block.Date,
		&block.StartTime,
		&block.EndTime,
		&block.Reason,
		&createdAt,
		&block.ReleasedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockByID - scan block: %v", ErrScanRow, err)
	}

	block.CreatedAt = createdAt.Time
	return &block, nil
}

// ListActiveBlocksInRange получает активные блоки бизнеса за период [from, to].
// Внутри транзакции при запросе на конкретную дату добавляет FOR UPDATE -
// та же гарантия сериализации, что и для бронирований.
func (r *Repository) ListActiveBlocksInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"business_id",
		"block_date",
		"start_time",
		"end_time",
		"reason",
		"created_at",
		"released_at",
	).
		From("time_blocks").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"released_at": nil}).
		Where(squirrel.GtOrEq{"block_date": from}).
		Where(squirrel.LtOrEq{"block_date": to}).
		OrderBy("block_date ASC, start_time ASC")

	if dbmetrics.IsInTransaction(ctx) && from.Equal(to) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveBlocksInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveBlocksInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.TimeBlock, 0)
	for rows.Next() {
		var block domain.TimeBlock
		var createdAt sql.NullTime

		err := rows.Scan(
			&block.ID,
			&block.BusinessID,
			&block.Date,
			&block.StartTime,
			&block.EndTime,
			&block.Reason,
			&createdAt,
			&block.ReleasedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveBlocksInRange - scan row: %v", ErrScanRow, err)
		}

		block.CreatedAt = createdAt.Time
		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveBlocksInRange - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// ReleaseBlock снимает административный блок, освобождая интервал
func (r *Repository) ReleaseBlock(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_blocks").
		Set("released_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"released_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseBlock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReleaseBlock - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReleaseBlock - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

// scanReservation сканирует одну строку бронирования
func (r *Repository) scanReservation(row *sql.Row) (*domain.Reservation, error) {
	var reservation domain.Reservation
	var createdAt, updatedAt sql.NullTime
	var cancelledBy sql.NullString

	err := row.Scan(
		&reservation.ID,
		&reservation.OrderID,
		&reservation.BusinessID,
		&reservation.ServiceID,
		&reservation.CustomerID,
		&reservation.PetID,
		&reservation.Date,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.Status,
		&reservation.ServiceName,
		&reservation.Price,
		&reservation.Notes,
		&reservation.CancellationReason,
		&cancelledBy,
		&reservation.CancelledAt,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan reservation: %v", ErrScanRow, err)
	}

	if cancelledBy.Valid {
		actor := domain.Actor(cancelledBy.String)
		reservation.CancelledBy = &actor
	}
	reservation.CreatedAt = createdAt.Time
	reservation.UpdatedAt = updatedAt.Time

	return &reservation, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var reservation domain.Reservation
		var createdAt, updatedAt sql.NullTime
		var cancelledBy sql.NullString

		err := rows.Scan(
			&reservation.ID,
			&reservation.OrderID,
			&reservation.BusinessID,
			&reservation.ServiceID,
			&reservation.CustomerID,
			&reservation.PetID,
			&reservation.Date,
			&reservation.StartTime,
			&reservation.EndTime,
			&reservation.Status,
			&reservation.ServiceName,
			&reservation.Price,
			&reservation.Notes,
			&reservation.CancellationReason,
			&cancelledBy,
			&reservation.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		if cancelledBy.Valid {
			actor := domain.Actor(cancelledBy.String)
			reservation.CancelledBy = &actor
		}
		reservation.CreatedAt = createdAt.Time
		reservation.UpdatedAt = updatedAt.Time

		reservations = append(reservations, &reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// isUniqueViolation проверяет нарушение конкретного уникального индекса
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}
	return false
}
