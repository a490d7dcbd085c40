package get_available_times

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmily/PM-ReservationService/internal/domain"
	scheduleRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/schedule"
	"github.com/petmily/PM-ReservationService/internal/integrations/catalog"
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

type fakeReservationRepo struct {
	reservations []*domain.Reservation
	blocks       []*domain.TimeBlock
}

func (f *fakeReservationRepo) GetByBusinessWithFilter(_ context.Context, _ domain.ReservationsFilter) ([]*domain.Reservation, error) {
	return f.reservations, nil
}

func (f *fakeReservationRepo) ListActiveBlocksInRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.TimeBlock, error) {
	return f.blocks, nil
}

type fakeCatalog struct {
	service *catalog.Service
	err     error
}

func (f *fakeCatalog) GetBusiness(_ context.Context, businessID int64) (*catalog.Business, error) {
	return &catalog.Business{ID: businessID}, nil
}

func (f *fakeCatalog) GetService(_ context.Context, _, _ int64) (*catalog.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

func mustTime(t *testing.T, value string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(value)
	require.NoError(t, err)
	return ts
}

// 2025-06-02 это понедельник
var testNow = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func mondayEntry(t *testing.T) *domain.WeeklyScheduleEntry {
	t.Helper()
	return &domain.WeeklyScheduleEntry{
		BusinessID: 1,
		Day:        domain.Monday,
		StartTime:  mustTime(t, "09:00"),
		EndTime:    mustTime(t, "18:00"),
		BreakStart: mustTime(t, "12:00"),
		BreakEnd:   mustTime(t, "13:00"),
	}
}

func newTestUseCase(
	schedule *fakeScheduleRepo,
	reservations *fakeReservationRepo,
	catalogClient *fakeCatalog,
) *UseCase {
	uc := NewUseCase(schedule, reservations, catalogClient, nopLogger{})
	uc.timeProvider = &fixedClock{now: testNow}
	return uc
}

func timeStrings(t *testing.T, values ...string) []types.TimeString {
	t.Helper()
	result := make([]types.TimeString, 0, len(values))
	for _, v := range values {
		result = append(result, mustTime(t, v))
	}
	return result
}

func TestExecuteBreakSplitsSlots(t *testing.T) {
	schedule := &fakeScheduleRepo{
		week: map[domain.WeekDay]*domain.WeeklyScheduleEntry{domain.Monday: mondayEntry(t)},
	}
	uc := newTestUseCase(schedule, &fakeReservationRepo{}, &fakeCatalog{
		service: &catalog.Service{ID: 10, BusinessID: 1, DurationMinutes: 60},
	})

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       testNow.AddDate(0, 0, 7),
	})

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t,
		timeStrings(t, "09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"),
		resp.Times)
}

func TestExecuteOccupiedIntervalsSubtracted(t *testing.T) {
	schedule := &fakeScheduleRepo{
		week: map[domain.WeekDay]*domain.WeeklyScheduleEntry{domain.Monday: mondayEntry(t)},
	}
	reservations := &fakeReservationRepo{
		reservations: []*domain.Reservation{{
			ID:        1,
			StartTime: mustTime(t, "10:00"),
			EndTime:   mustTime(t, "11:00"),
			Status:    domain.StatusConfirmed,
		}},
		blocks: []*domain.TimeBlock{{
			ID:        2,
			StartTime: mustTime(t, "15:00"),
			EndTime:   mustTime(t, "16:00"),
		}},
	}
	uc := newTestUseCase(schedule, reservations, &fakeCatalog{
		service: &catalog.Service{ID: 10, BusinessID: 1, DurationMinutes: 60},
	})

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       testNow.AddDate(0, 0, 7),
	})

	require.NoError(t, err)
	assert.Equal(t,
		timeStrings(t, "09:00", "11:00", "13:00", "14:00", "16:00", "17:00"),
		resp.Times)
}

func TestExecuteClosedDayReturnsEmpty(t *testing.T) {
	// Расписание не задано вовсе: бизнес закрыт каждый день
	uc := newTestUseCase(
		&fakeScheduleRepo{week: map[domain.WeekDay]*domain.WeeklyScheduleEntry{}},
		&fakeReservationRepo{},
		&fakeCatalog{service: &catalog.Service{ID: 10, BusinessID: 1, DurationMinutes: 60}},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       testNow.AddDate(0, 0, 7),
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Times)
}

func TestExecuteDayOffExceptionWins(t *testing.T) {
	date := testNow.AddDate(0, 0, 7)
	schedule := &fakeScheduleRepo{
		week: map[domain.WeekDay]*domain.WeeklyScheduleEntry{domain.Monday: mondayEntry(t)},
		exceptions: map[string]*domain.ExceptionDate{
			date.Format(domain.DateFormat): {BusinessID: 1, Date: date, IsDayOff: true},
		},
	}
	uc := newTestUseCase(schedule, &fakeReservationRepo{}, &fakeCatalog{
		service: &catalog.Service{ID: 10, BusinessID: 1, DurationMinutes: 60},
	})

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: date})

	require.NoError(t, err)
	assert.Empty(t, resp.Times)
}

func TestExecuteSameDayLeadTimeCut(t *testing.T) {
	schedule := &fakeScheduleRepo{
		week: map[domain.WeekDay]*domain.WeeklyScheduleEntry{domain.Monday: mondayEntry(t)},
	}
	uc := newTestUseCase(schedule, &fakeReservationRepo{}, &fakeCatalog{
		service: &catalog.Service{ID: 10, BusinessID: 1, DurationMinutes: 120, MinLeadMinutes: 60},
	})

	// Сейчас 08:00, минимум час до начала: слот 09:00 уже недоступен
	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: testNow})

	require.NoError(t, err)
	assert.Equal(t, timeStrings(t, "13:00", "15:00"), resp.Times)
}

func TestExecuteDateValidation(t *testing.T) {
	uc := newTestUseCase(
		&fakeScheduleRepo{week: map[domain.WeekDay]*domain.WeeklyScheduleEntry{}},
		&fakeReservationRepo{},
		&fakeCatalog{service: &catalog.Service{ID: 10, BusinessID: 1, DurationMinutes: 60}},
	)

	_, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       testNow.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       testNow.AddDate(0, 0, domain.MaxDisabledDatesDays+1),
	})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecuteInvalidInput(t *testing.T) {
	uc := newTestUseCase(
		&fakeScheduleRepo{week: map[domain.WeekDay]*domain.WeeklyScheduleEntry{}},
		&fakeReservationRepo{},
		&fakeCatalog{},
	)

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 0, ServiceID: 10, Date: testNow})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 0, Date: testNow})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecuteCatalogErrors(t *testing.T) {
	date := testNow.AddDate(0, 0, 7)

	tests := []struct {
		name       string
		catalogErr error
		wantErr    error
	}{
		{"service not found", catalog.ErrServiceNotFound, ErrServiceNotFound},
		{"business not found", catalog.ErrBusinessNotFound, ErrBusinessNotFound},
		{"catalog unavailable", catalog.ErrUnavailable, ErrCatalogUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(
				&fakeScheduleRepo{week: map[domain.WeekDay]*domain.WeeklyScheduleEntry{}},
				&fakeReservationRepo{},
				&fakeCatalog{err: tt.catalogErr},
			)

			_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: date})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
