package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/pkg/dbmetrics"
	"github.com/petmily/PM-ReservationService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// paymentColumns колонки таблицы payments в порядке сканирования
var paymentColumns = []string{
	"id",
	"order_id",
	"payment_key",
	"business_id",
	"service_id",
	"customer_id",
	"pet_id",
	"reservation_date",
	"start_time",
	"amount",
	"status",
	"reservation_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий платежей.
// Платеж создается до бронирования и связывается с ним после подтверждения;
// order_id - ключ идемпотентности всего процесса.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись платежа в статусе ready
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"order_id",
			"payment_key",
			"business_id",
			"service_id",
			"customer_id",
			"pet_id",
			"reservation_date",
			"start_time",
			"amount",
			"status",
		).
		Values(
			payment.OrderID,
			payment.PaymentKey,
			payment.BusinessID,
			payment.ServiceID,
			payment.CustomerID,
			payment.PetID,
			payment.Date,
			payment.StartTime,
			payment.Amount,
			payment.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateOrderID
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return payment, nil
}

// GetByOrderID получает платеж по идентификатору заказа
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"order_id": orderID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrderID - build select query: %v", ErrBuildQuery, err)
	}

	var payment domain.Payment
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.PaymentKey,
		&payment.BusinessID,
		&payment.ServiceID,
		&payment.CustomerID,
		&payment.PetID,
		&payment.Date,
		&payment.StartTime,
		&payment.Amount,
		&payment.Status,
		&payment.ReservationID,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrderID - scan payment: %v", ErrScanRow, err)
	}

	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return &payment, nil
}

// MarkCaptured помечает платеж подтвержденным и сохраняет ключ платежа шлюза
func (r *Repository) MarkCaptured(ctx context.Context, orderID string, paymentKey string) error {
	return r.update(ctx, orderID, map[string]interface{}{
		"status":      domain.PaymentStatusCaptured,
		"payment_key": paymentKey,
	}, "MarkCaptured")
}

// MarkRefunded помечает платеж возвращенным
func (r *Repository) MarkRefunded(ctx context.Context, orderID string) error {
	return r.update(ctx, orderID, map[string]interface{}{
		"status": domain.PaymentStatusRefunded,
	}, "MarkRefunded")
}

// LinkReservation связывает платеж с созданным бронированием
func (r *Repository) LinkReservation(ctx context.Context, orderID string, reservationID int64) error {
	return r.update(ctx, orderID, map[string]interface{}{
		"reservation_id": reservationID,
	}, "LinkReservation")
}

func (r *Repository) update(ctx context.Context, orderID string, set map[string]interface{}, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("payments").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"order_id": orderID})
	for column, value := range set {
		updateBuilder = updateBuilder.Set(column, value)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}
