package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmily/PM-ReservationService/internal/domain"
	paymentRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/payment"
	reservationRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/reservation"
	"github.com/petmily/PM-ReservationService/internal/integrations/catalog"
	"github.com/petmily/PM-ReservationService/internal/integrations/notifier"
	"github.com/petmily/PM-ReservationService/internal/integrations/paygate"
	"github.com/petmily/PM-ReservationService/internal/service/reservations/models"
	"github.com/petmily/PM-ReservationService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type fakeReservationRepo struct {
	byID map[int64]*domain.Reservation
}

func newFakeReservationRepo(reservations ...*domain.Reservation) *fakeReservationRepo {
	f := &fakeReservationRepo{byID: make(map[int64]*domain.Reservation)}
	for _, r := range reservations {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return r, nil
}

func (f *fakeReservationRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, r := range f.byID {
		if r.CustomerID != customerID {
			continue
		}
		if status != nil && r.Status != *status {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (f *fakeReservationRepo) GetByBusinessWithFilter(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, r := range f.byID {
		if r.BusinessID != filter.BusinessID {
			continue
		}
		if !filter.IncludeInactive && !r.IsActive() {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus) error {
	r, ok := f.byID[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeReservationRepo) Cancel(_ context.Context, id int64, actor domain.Actor, reason string) error {
	r, ok := f.byID[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	r.Status = domain.StatusCanceled
	r.CancelledBy = &actor
	r.CancellationReason = &reason
	return nil
}

type fakePaymentRepo struct {
	payments map[string]*domain.Payment
}

func (f *fakePaymentRepo) GetByOrderID(_ context.Context, orderID string) (*domain.Payment, error) {
	p, ok := f.payments[orderID]
	if !ok {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	return p, nil
}

func (f *fakePaymentRepo) MarkRefunded(_ context.Context, orderID string) error {
	p, ok := f.payments[orderID]
	if !ok {
		return paymentRepo.ErrPaymentNotFound
	}
	p.Status = domain.PaymentStatusRefunded
	return nil
}

type fakeCatalog struct {
	business *catalog.Business
	err      error
}

func (f *fakeCatalog) GetBusiness(_ context.Context, _ int64) (*catalog.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.business, nil
}

type fakePaygate struct {
	refundErr   error
	refundCalls int
}

func (f *fakePaygate) Refund(_ context.Context, _ paygate.RefundRequest) error {
	f.refundCalls++
	return f.refundErr
}

type fakeNotifier struct {
	events []notifier.TransitionEvent
}

func (f *fakeNotifier) NotifyTransition(_ context.Context, event notifier.TransitionEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func mustTime(t *testing.T, value string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(value)
	require.NoError(t, err)
	return ts
}

const (
	ownerID    = int64(5)
	managerID  = int64(6)
	customerID = int64(42)
	strangerID = int64(99)
)

func testReservation(t *testing.T, status domain.ReservationStatus) *domain.Reservation {
	t.Helper()
	return &domain.Reservation{
		ID:         1,
		OrderID:    "ord-1",
		BusinessID: 1,
		ServiceID:  10,
		CustomerID: customerID,
		PetID:      7,
		Date:       time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		StartTime:  mustTime(t, "10:00"),
		EndTime:    mustTime(t, "11:00"),
		Status:     status,
	}
}

type fixture struct {
	svc          *Service
	reservations *fakeReservationRepo
	payments     *fakePaymentRepo
	paygate      *fakePaygate
	notifier     *fakeNotifier
}

func newFixture(reservations *fakeReservationRepo, payments map[string]*domain.Payment) *fixture {
	gateway := &fakePaygate{}
	events := &fakeNotifier{}
	paymentStore := &fakePaymentRepo{payments: payments}
	if paymentStore.payments == nil {
		paymentStore.payments = make(map[string]*domain.Payment)
	}

	svc := NewService(
		reservations,
		paymentStore,
		&fakeCatalog{business: &catalog.Business{ID: 1, OwnerID: ownerID, ManagerIDs: []int64{managerID}}},
		gateway,
		events,
		fakeTxManager{},
		&fixedClock{now: time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)},
		nopLogger{},
	)

	return &fixture{svc: svc, reservations: reservations, payments: paymentStore, paygate: gateway, notifier: events}
}

func TestGetByIDAccess(t *testing.T) {
	fx := newFixture(newFakeReservationRepo(testReservation(t, domain.StatusConfirmed)), nil)

	resp, err := fx.svc.GetByID(context.Background(), 1, customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	_, err = fx.svc.GetByID(context.Background(), 1, ownerID)
	assert.NoError(t, err)

	_, err = fx.svc.GetByID(context.Background(), 1, managerID)
	assert.NoError(t, err)

	_, err = fx.svc.GetByID(context.Background(), 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = fx.svc.GetByID(context.Background(), 404, customerID)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ReservationStatus
		to      string
		wantErr error
	}{
		{"pending to confirmed", domain.StatusPending, "confirmed", nil},
		{"confirmed to completed", domain.StatusConfirmed, "completed", nil},
		{"pending to completed", domain.StatusPending, "completed", ErrInvalidTransition},
		{"completed is terminal", domain.StatusCompleted, "confirmed", ErrInvalidTransition},
		{"cancellation via status update", domain.StatusPending, "canceled", ErrInvalidInput},
		{"unknown status", domain.StatusPending, "archived", ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(newFakeReservationRepo(testReservation(t, tt.from)), nil)

			err := fx.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
				UserID: ownerID,
				Status: tt.to,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ReservationStatus(tt.to), fx.reservations.byID[1].Status)
			require.Len(t, fx.notifier.events, 1)
			assert.Equal(t, tt.to, fx.notifier.events[0].NewStatus)
		})
	}
}

func TestUpdateStatusAccessDenied(t *testing.T) {
	fx := newFixture(newFakeReservationRepo(testReservation(t, domain.StatusPending)), nil)

	err := fx.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: strangerID,
		Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancelByCustomerRefundsCapturedPayment(t *testing.T) {
	payments := map[string]*domain.Payment{
		"ord-1": {OrderID: "ord-1", CustomerID: customerID, Amount: 50, Status: domain.PaymentStatusCaptured},
	}
	fx := newFixture(newFakeReservationRepo(testReservation(t, domain.StatusConfirmed)), payments)

	err := fx.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		UserID:             customerID,
		CancellationReason: "планы изменились",
	})

	require.NoError(t, err)
	cancelled := fx.reservations.byID[1]
	assert.Equal(t, domain.StatusCanceled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, domain.ActorCustomer, *cancelled.CancelledBy)
	assert.Equal(t, 1, fx.paygate.refundCalls)
	assert.Equal(t, domain.PaymentStatusRefunded, payments["ord-1"].Status)
	require.Len(t, fx.notifier.events, 1)
	assert.Equal(t, string(domain.StatusCanceled), fx.notifier.events[0].NewStatus)
}

func TestCancelByBusinessActor(t *testing.T) {
	fx := newFixture(newFakeReservationRepo(testReservation(t, domain.StatusPending)), nil)

	err := fx.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		UserID:             managerID,
		CancellationReason: "мастер заболел",
	})

	require.NoError(t, err)
	require.NotNil(t, fx.reservations.byID[1].CancelledBy)
	assert.Equal(t, domain.ActorBusiness, *fx.reservations.byID[1].CancelledBy)
}

func TestCancelUncapturedPaymentSkipsRefund(t *testing.T) {
	payments := map[string]*domain.Payment{
		"ord-1": {OrderID: "ord-1", CustomerID: customerID, Amount: 50, Status: domain.PaymentStatusReady},
	}
	fx := newFixture(newFakeReservationRepo(testReservation(t, domain.StatusPending)), payments)

	err := fx.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: customerID})

	require.NoError(t, err)
	assert.Zero(t, fx.paygate.refundCalls)
	assert.Equal(t, domain.PaymentStatusReady, payments["ord-1"].Status)
}

func TestCancelRefundFailureKeepsCancellation(t *testing.T) {
	payments := map[string]*domain.Payment{
		"ord-1": {OrderID: "ord-1", CustomerID: customerID, Amount: 50, Status: domain.PaymentStatusCaptured},
	}
	fx := newFixture(newFakeReservationRepo(testReservation(t, domain.StatusConfirmed)), payments)
	fx.paygate.refundErr = paygate.ErrUnavailable

	err := fx.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: customerID})

	assert.ErrorIs(t, err, ErrRefundFailed)
	// Отмена зафиксирована, платеж остается captured для повторного возврата
	assert.Equal(t, domain.StatusCanceled, fx.reservations.byID[1].Status)
	assert.Equal(t, domain.PaymentStatusCaptured, payments["ord-1"].Status)
}

func TestCancelTerminalStatuses(t *testing.T) {
	for _, status := range []domain.ReservationStatus{domain.StatusCompleted, domain.StatusCanceled} {
		t.Run(string(status), func(t *testing.T) {
			fx := newFixture(newFakeReservationRepo(testReservation(t, status)), nil)

			err := fx.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: customerID})
			assert.ErrorIs(t, err, ErrCannotCancel)
		})
	}
}

func TestCancelAccessDenied(t *testing.T) {
	fx := newFixture(newFakeReservationRepo(testReservation(t, domain.StatusPending)), nil)

	err := fx.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: strangerID})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, fx.reservations.byID[1].Status)
}

func TestGetCustomerReservationsStatusFilter(t *testing.T) {
	confirmed := testReservation(t, domain.StatusConfirmed)
	canceled := testReservation(t, domain.StatusCanceled)
	canceled.ID = 2
	canceled.OrderID = "ord-2"
	fx := newFixture(newFakeReservationRepo(confirmed, canceled), nil)

	status := "confirmed"
	resp, err := fx.svc.GetCustomerReservations(context.Background(), &models.GetCustomerReservationsRequest{
		CustomerID: customerID,
		Status:     &status,
	})

	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "confirmed", resp.Reservations[0].Status)

	bad := "archived"
	_, err = fx.svc.GetCustomerReservations(context.Background(), &models.GetCustomerReservationsRequest{
		CustomerID: customerID,
		Status:     &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBusinessReservations(t *testing.T) {
	active := testReservation(t, domain.StatusConfirmed)
	canceled := testReservation(t, domain.StatusCanceled)
	canceled.ID = 2
	canceled.OrderID = "ord-2"
	fx := newFixture(newFakeReservationRepo(active, canceled), nil)

	resp, err := fx.svc.GetBusinessReservations(context.Background(), &models.GetBusinessReservationsRequest{
		UserID:     ownerID,
		BusinessID: 1,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 1)

	resp, err = fx.svc.GetBusinessReservations(context.Background(), &models.GetBusinessReservationsRequest{
		UserID:          ownerID,
		BusinessID:      1,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)

	_, err = fx.svc.GetBusinessReservations(context.Background(), &models.GetBusinessReservationsRequest{
		UserID:     strangerID,
		BusinessID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
