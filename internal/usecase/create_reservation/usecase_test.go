package create_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmily/PM-ReservationService/internal/domain"
	reservationRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/reservation"
	scheduleRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/schedule"
	paymentRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/payment"
	"github.com/petmily/PM-ReservationService/internal/integrations/catalog"
	"github.com/petmily/PM-ReservationService/internal/integrations/notifier"
	"github.com/petmily/PM-ReservationService/internal/integrations/paygate"
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
	byOrderID map[string]*domain.Reservation
	occupied  []*domain.Reservation
	blocks    []*domain.TimeBlock
	nextID    int64
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{byOrderID: make(map[string]*domain.Reservation), nextID: 100}
}

func (f *fakeReservationRepo) Create(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	if _, ok := f.byOrderID[r.OrderID]; ok {
		return nil, reservationRepo.ErrDuplicateOrderID
	}
	created := *r
	created.ID = f.nextID
	f.nextID++
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.byOrderID[r.OrderID] = &created
	return &created, nil
}

func (f *fakeReservationRepo) GetByOrderID(_ context.Context, orderID string) (*domain.Reservation, error) {
	r, ok := f.byOrderID[orderID]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return r, nil
}

func (f *fakeReservationRepo) GetByBusinessWithFilter(_ context.Context, _ domain.ReservationsFilter) ([]*domain.Reservation, error) {
	return f.occupied, nil
}

func (f *fakeReservationRepo) ListActiveBlocksInRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.TimeBlock, error) {
	return f.blocks, nil
}

type fakePaymentRepo struct {
	payments map[string]*domain.Payment
	linked   map[string]int64
}

func newFakePaymentRepo(payments ...*domain.Payment) *fakePaymentRepo {
	f := &fakePaymentRepo{payments: make(map[string]*domain.Payment), linked: make(map[string]int64)}
	for _, p := range payments {
		f.payments[p.OrderID] = p
	}
	return f
}

func (f *fakePaymentRepo) GetByOrderID(_ context.Context, orderID string) (*domain.Payment, error) {
	p, ok := f.payments[orderID]
	if !ok {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	return p, nil
}

func (f *fakePaymentRepo) MarkCaptured(_ context.Context, orderID string, paymentKey string) error {
	p, ok := f.payments[orderID]
	if !ok {
		return paymentRepo.ErrPaymentNotFound
	}
	p.Status = domain.PaymentStatusCaptured
	p.PaymentKey = paymentKey
	return nil
}

func (f *fakePaymentRepo) MarkRefunded(_ context.Context, orderID string) error {
	p, ok := f.payments[orderID]
	if !ok {
		return paymentRepo.ErrPaymentNotFound
	}
	p.Status = domain.PaymentStatusRefunded
	return nil
}

func (f *fakePaymentRepo) LinkReservation(_ context.Context, orderID string, reservationID int64) error {
	f.linked[orderID] = reservationID
	return nil
}

type fakeScheduleRepo struct {
	week       map[domain.WeekDay]*domain.WeeklyScheduleEntry
	exceptions map[string]*domain.ExceptionDate
}

func (f *fakeScheduleRepo) GetDay(_ context.Context, _ int64, day domain.WeekDay) (*domain.WeeklyScheduleEntry, error) {
	entry, ok := f.week[day]
	if !ok {
		return nil, scheduleRepo.ErrEntryNotFound
	}
	return entry, nil
}

func (f *fakeScheduleRepo) GetException(_ context.Context, _ int64, date time.Time) (*domain.ExceptionDate, error) {
	exception, ok := f.exceptions[date.Format(domain.DateFormat)]
	if !ok {
		return nil, scheduleRepo.ErrExceptionNotFound
	}
	return exception, nil
}

type fakeCatalog struct {
	service *catalog.Service
	err     error
}

func (f *fakeCatalog) GetService(_ context.Context, _, _ int64) (*catalog.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fakePaygate struct {
	approveErr   error
	refundErr    error
	approveCalls int
	refundCalls  int
}

func (f *fakePaygate) Approve(_ context.Context, _ paygate.ApproveRequest) (*paygate.Approval, error) {
	f.approveCalls++
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	return &paygate.Approval{}, nil
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

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func mustTime(t *testing.T, value string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(value)
	require.NoError(t, err)
	return ts
}

// 2025-06-02 это понедельник
var testNow = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

type fixture struct {
	uc           *UseCase
	reservations *fakeReservationRepo
	payments     *fakePaymentRepo
	paygate      *fakePaygate
	notifier     *fakeNotifier
}

func newFixture(t *testing.T, payment *domain.Payment) *fixture {
	t.Helper()

	reservations := newFakeReservationRepo()
	payments := newFakePaymentRepo(payment)
	schedule := &fakeScheduleRepo{
		week: map[domain.WeekDay]*domain.WeeklyScheduleEntry{
			domain.Monday: {
				BusinessID: 1,
				Day:        domain.Monday,
				StartTime:  mustTime(t, "09:00"),
				EndTime:    mustTime(t, "18:00"),
				BreakStart: mustTime(t, "12:00"),
				BreakEnd:   mustTime(t, "13:00"),
			},
		},
	}
	gateway := &fakePaygate{}
	events := &fakeNotifier{}

	uc := NewUseCase(
		reservations,
		payments,
		schedule,
		&fakeCatalog{service: &catalog.Service{ID: 10, BusinessID: 1, Name: "Стрижка", DurationMinutes: 60}},
		gateway,
		events,
		fakeTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &fixedClock{now: testNow}

	return &fixture{uc: uc, reservations: reservations, payments: payments, paygate: gateway, notifier: events}
}

func readyPayment(t *testing.T) *domain.Payment {
	t.Helper()
	return &domain.Payment{
		ID:         1,
		OrderID:    "ord-1",
		BusinessID: 1,
		ServiceID:  10,
		CustomerID: 42,
		PetID:      7,
		Date:       testNow.AddDate(0, 0, 7),
		StartTime:  mustTime(t, "10:00"),
		Amount:     50,
		Status:     domain.PaymentStatusReady,
	}
}

func validRequest() *Request {
	return &Request{
		CustomerID: 42,
		OrderID:    "ord-1",
		PaymentKey: "pay-key-1",
		Amount:     50,
	}
}

func TestExecuteCreatesReservation(t *testing.T) {
	fx := newFixture(t, readyPayment(t))

	resp, err := fx.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "ord-1", resp.OrderID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, mustTime(t, "10:00"), resp.StartTime)
	assert.Equal(t, mustTime(t, "11:00"), resp.EndTime)
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, 50.0, resp.Price)

	assert.Equal(t, 1, fx.paygate.approveCalls)
	assert.Equal(t, domain.PaymentStatusCaptured, fx.payments.payments["ord-1"].Status)
	assert.Equal(t, resp.ID, fx.payments.linked["ord-1"])
	require.Len(t, fx.notifier.events, 1)
	assert.Equal(t, string(domain.StatusPending), fx.notifier.events[0].NewStatus)
}

func TestExecuteIdempotentReplay(t *testing.T) {
	fx := newFixture(t, readyPayment(t))

	first, err := fx.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	second, err := fx.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// Шлюз вызван только при первом подтверждении
	assert.Equal(t, 1, fx.paygate.approveCalls)
	assert.Len(t, fx.notifier.events, 1)
}

func TestExecuteSlotConflictRefundsPayment(t *testing.T) {
	fx := newFixture(t, readyPayment(t))
	fx.reservations.occupied = []*domain.Reservation{{
		ID:        99,
		StartTime: mustTime(t, "10:30"),
		EndTime:   mustTime(t, "11:30"),
		Status:    domain.StatusConfirmed,
	}}

	_, err := fx.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Equal(t, 1, fx.paygate.refundCalls)
	assert.Equal(t, domain.PaymentStatusRefunded, fx.payments.payments["ord-1"].Status)
	assert.Empty(t, fx.payments.linked)
}

func TestExecuteRefundFailureLeavesPaymentCaptured(t *testing.T) {
	fx := newFixture(t, readyPayment(t))
	fx.paygate.refundErr = paygate.ErrUnavailable
	fx.reservations.occupied = []*domain.Reservation{{
		ID:        99,
		StartTime: mustTime(t, "10:00"),
		EndTime:   mustTime(t, "11:00"),
		Status:    domain.StatusConfirmed,
	}}

	_, err := fx.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotConflict)
	// Возврат не прошел: платеж остается captured для повторного возврата
	assert.Equal(t, domain.PaymentStatusCaptured, fx.payments.payments["ord-1"].Status)
}

func TestExecutePaymentNotFound(t *testing.T) {
	fx := newFixture(t, readyPayment(t))

	req := validRequest()
	req.OrderID = "ord-unknown"

	_, err := fx.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestExecuteAccessDenied(t *testing.T) {
	fx := newFixture(t, readyPayment(t))

	req := validRequest()
	req.CustomerID = 43

	_, err := fx.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, fx.paygate.approveCalls)
}

func TestExecuteAmountMismatch(t *testing.T) {
	fx := newFixture(t, readyPayment(t))

	req := validRequest()
	req.Amount = 49

	_, err := fx.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAmountMismatch)
	assert.Zero(t, fx.paygate.approveCalls)
}

func TestExecuteRefundedOrderRejected(t *testing.T) {
	payment := readyPayment(t)
	payment.Status = domain.PaymentStatusRefunded
	fx := newFixture(t, payment)

	_, err := fx.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrOrderRefunded)
}

func TestExecutePaymentDeclined(t *testing.T) {
	fx := newFixture(t, readyPayment(t))
	fx.paygate.approveErr = paygate.ErrPaymentDeclined

	_, err := fx.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, domain.PaymentStatusReady, fx.payments.payments["ord-1"].Status)
	assert.Empty(t, fx.reservations.byOrderID)
}

func TestExecuteCapturedPaymentSkipsGateway(t *testing.T) {
	payment := readyPayment(t)
	payment.Status = domain.PaymentStatusCaptured
	payment.PaymentKey = "pay-key-1"
	fx := newFixture(t, payment)

	resp, err := fx.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Zero(t, fx.paygate.approveCalls)
}

func TestExecuteBusinessClosed(t *testing.T) {
	payment := readyPayment(t)
	// Следующее воскресенье: недельного шаблона на этот день нет
	payment.Date = testNow.AddDate(0, 0, 6)
	fx := newFixture(t, payment)

	_, err := fx.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecuteOutsideWorkingHours(t *testing.T) {
	tests := []struct {
		name  string
		start string
	}{
		{"crosses the break", "11:30"},
		{"after closing", "17:30"},
		{"before opening", "08:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := readyPayment(t)
			payment.StartTime = mustTime(t, tt.start)
			fx := newFixture(t, payment)

			_, err := fx.uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrOutsideWorkingHours)
			assert.Zero(t, fx.paygate.approveCalls)
		})
	}
}

func TestExecutePastDateRejected(t *testing.T) {
	payment := readyPayment(t)
	payment.Date = testNow.AddDate(0, 0, -1)
	fx := newFixture(t, payment)

	_, err := fx.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInvalidStartTime)
}

func TestExecuteSameDayLeadTimeViolation(t *testing.T) {
	payment := readyPayment(t)
	payment.Date = testNow
	payment.StartTime = mustTime(t, "07:00")
	fx := newFixture(t, payment)

	_, err := fx.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInvalidStartTime)
}

func TestExecuteValidation(t *testing.T) {
	fx := newFixture(t, readyPayment(t))

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero customer", func(r *Request) { r.CustomerID = 0 }},
		{"empty order id", func(r *Request) { r.OrderID = "" }},
		{"empty payment key", func(r *Request) { r.PaymentKey = "" }},
		{"non-positive amount", func(r *Request) { r.Amount = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := fx.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecuteCatalogErrors(t *testing.T) {
	tests := []struct {
		name       string
		catalogErr error
		wantErr    error
	}{
		{"service not found", catalog.ErrServiceNotFound, ErrServiceNotFound},
		{"catalog unavailable", catalog.ErrUnavailable, ErrCatalogUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, readyPayment(t))
			fx.uc.catalogClient = &fakeCatalog{err: tt.catalogErr}

			_, err := fx.uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
