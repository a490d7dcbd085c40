package get_disabled_dates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmily/PM-ReservationService/internal/domain"
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
	week       []*domain.WeeklyScheduleEntry
	exceptions []*domain.ExceptionDate
}

func (f *fakeScheduleRepo) GetWeek(_ context.Context, _ int64) ([]*domain.WeeklyScheduleEntry, error) {
	return f.week, nil
}

func (f *fakeScheduleRepo) ListExceptionsInRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.ExceptionDate, error) {
	return f.exceptions, nil
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

func (f *fakeCatalog) GetServiceByID(_ context.Context, _ int64) (*catalog.Service, error) {
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

// workWeek возвращает шаблон: будни 09:00-12:00, суббота и воскресенье выходные
func workWeek(t *testing.T) []*domain.WeeklyScheduleEntry {
	t.Helper()
	week := make([]*domain.WeeklyScheduleEntry, 0, domain.DaysPerWeek)
	for day := domain.Monday; day <= domain.Sunday; day++ {
		entry := &domain.WeeklyScheduleEntry{BusinessID: 1, Day: day}
		if day == domain.Saturday || day == domain.Sunday {
			entry.IsDayOff = true
		} else {
			entry.StartTime = mustTime(t, "09:00")
			entry.EndTime = mustTime(t, "12:00")
		}
		week = append(week, entry)
	}
	return week
}

func newTestUseCase(schedule *fakeScheduleRepo, reservations *fakeReservationRepo, catalogClient *fakeCatalog) *UseCase {
	uc := NewUseCase(schedule, reservations, catalogClient, nopLogger{})
	uc.timeProvider = &fixedClock{now: testNow}
	return uc
}

func TestExecuteDisabledDates(t *testing.T) {
	schedule := &fakeScheduleRepo{
		week: workWeek(t),
		exceptions: []*domain.ExceptionDate{{
			BusinessID: 1,
			Date:       time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
			IsDayOff:   true,
		}},
	}
	reservations := &fakeReservationRepo{
		// Вторник занят целиком одним бронированием
		reservations: []*domain.Reservation{{
			ID:        1,
			Date:      time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
			StartTime: mustTime(t, "09:00"),
			EndTime:   mustTime(t, "12:00"),
			Status:    domain.StatusConfirmed,
		}},
		// В четверг остается только 30 свободных минут
		blocks: []*domain.TimeBlock{{
			ID:        2,
			Date:      time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
			StartTime: mustTime(t, "09:30"),
			EndTime:   mustTime(t, "12:00"),
		}},
	}
	uc := newTestUseCase(schedule, reservations, &fakeCatalog{
		service: &catalog.Service{ID: 10, BusinessID: 1, DurationMinutes: 60},
	})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 10, Days: 7})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.BusinessID)
	assert.Equal(t, "2025-06-02", resp.From)
	assert.Equal(t, "2025-06-08", resp.To)
	assert.Equal(t, []string{
		"2025-06-03", // занято бронированием
		"2025-06-04", // исключение-выходной
		"2025-06-05", // остаток меньше длительности услуги
		"2025-06-07", // суббота
		"2025-06-08", // воскресенье
	}, resp.DisabledDates)
}

func TestExecuteShortServiceFitsRemainder(t *testing.T) {
	schedule := &fakeScheduleRepo{week: workWeek(t)}
	reservations := &fakeReservationRepo{
		blocks: []*domain.TimeBlock{{
			ID:        1,
			Date:      time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
			StartTime: mustTime(t, "09:30"),
			EndTime:   mustTime(t, "12:00"),
		}},
	}
	uc := newTestUseCase(schedule, reservations, &fakeCatalog{
		service: &catalog.Service{ID: 11, BusinessID: 1, DurationMinutes: 30},
	})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 11, Days: 7})

	require.NoError(t, err)
	// Получасовая услуга помещается в остаток четверга
	assert.NotContains(t, resp.DisabledDates, "2025-06-05")
}

func TestExecuteDefaultDays(t *testing.T) {
	uc := newTestUseCase(
		&fakeScheduleRepo{week: workWeek(t)},
		&fakeReservationRepo{},
		&fakeCatalog{service: &catalog.Service{ID: 10, BusinessID: 1, DurationMinutes: 60}},
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 10})

	require.NoError(t, err)
	expectedTo := testNow.AddDate(0, 0, domain.DefaultDisabledDatesDays-1).Format(domain.DateFormat)
	assert.Equal(t, expectedTo, resp.To)
}

func TestExecuteValidation(t *testing.T) {
	uc := newTestUseCase(&fakeScheduleRepo{}, &fakeReservationRepo{}, &fakeCatalog{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 10, Days: domain.MaxDisabledDatesDays + 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 10, Days: -5})
	assert.ErrorIs(t, err, ErrInvalidInput)
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
			uc := newTestUseCase(&fakeScheduleRepo{}, &fakeReservationRepo{}, &fakeCatalog{err: tt.catalogErr})

			_, err := uc.Execute(context.Background(), &Request{ServiceID: 10, Days: 7})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecuteInvalidServiceDuration(t *testing.T) {
	uc := newTestUseCase(
		&fakeScheduleRepo{},
		&fakeReservationRepo{},
		&fakeCatalog{service: &catalog.Service{ID: 10, BusinessID: 1, DurationMinutes: 2}},
	)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 10, Days: 7})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
