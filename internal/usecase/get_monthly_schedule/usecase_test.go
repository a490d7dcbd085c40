package get_monthly_schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

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

func mustTime(t *testing.T, value string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(value)
	require.NoError(t, err)
	return ts
}

// fullWeek возвращает шаблон: все дни 09:00-18:00, воскресенье выходной
func fullWeek(t *testing.T) []*domain.WeeklyScheduleEntry {
	t.Helper()
	week := make([]*domain.WeeklyScheduleEntry, 0, domain.DaysPerWeek)
	for day := domain.Monday; day <= domain.Sunday; day++ {
		entry := &domain.WeeklyScheduleEntry{BusinessID: 1, Day: day}
		if day == domain.Sunday {
			entry.IsDayOff = true
		} else {
			entry.StartTime = mustTime(t, "09:00")
			entry.EndTime = mustTime(t, "18:00")
		}
		week = append(week, entry)
	}
	return week
}

func summaryByDate(t *testing.T, resp *Response, date string) DaySummary {
	t.Helper()
	for _, day := range resp.Days {
		if day.Date == date {
			return day
		}
	}
	t.Fatalf("no summary for date %s", date)
	return DaySummary{}
}

func TestExecuteMonthlySummary(t *testing.T) {
	// Июнь 2025: понедельник 2-е, воскресенье 8-е
	schedule := &fakeScheduleRepo{
		week: fullWeek(t),
		exceptions: []*domain.ExceptionDate{{
			BusinessID: 1,
			Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			IsDayOff:   true,
		}},
	}
	reservations := &fakeReservationRepo{
		reservations: []*domain.Reservation{
			{
				ID:        1,
				Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
				StartTime: mustTime(t, "10:00"),
				EndTime:   mustTime(t, "11:00"),
				Status:    domain.StatusConfirmed,
			},
			{
				ID:        2,
				Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
				StartTime: mustTime(t, "14:00"),
				EndTime:   mustTime(t, "15:00"),
				Status:    domain.StatusPending,
			},
		},
		blocks: []*domain.TimeBlock{{
			ID:        3,
			Date:      time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
			StartTime: mustTime(t, "09:00"),
			EndTime:   mustTime(t, "18:00"),
		}},
	}

	uc := NewUseCase(schedule, reservations, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, Year: 2025, Month: time.June})

	require.NoError(t, err)
	assert.Equal(t, 2025, resp.Year)
	assert.Equal(t, time.June, resp.Month)
	require.Len(t, resp.Days, 30)
	assert.Equal(t, "2025-06-01", resp.Days[0].Date)
	assert.Equal(t, "2025-06-30", resp.Days[29].Date)

	monday := summaryByDate(t, resp, "2025-06-02")
	assert.False(t, monday.IsDayOff)
	assert.False(t, monday.IsFullyBlocked)
	assert.True(t, monday.HasReservations)
	assert.Equal(t, 2, monday.ReservationCount)
	assert.Zero(t, monday.BlockCount)

	// Блокировка на весь рабочий день: свободного времени нет
	blocked := summaryByDate(t, resp, "2025-06-03")
	assert.False(t, blocked.IsDayOff)
	assert.True(t, blocked.IsFullyBlocked)
	assert.False(t, blocked.HasReservations)
	assert.Equal(t, 1, blocked.BlockCount)

	sunday := summaryByDate(t, resp, "2025-06-08")
	assert.True(t, sunday.IsDayOff)

	exceptionDay := summaryByDate(t, resp, "2025-06-10")
	assert.True(t, exceptionDay.IsDayOff)

	plainDay := summaryByDate(t, resp, "2025-06-11")
	assert.False(t, plainDay.IsDayOff)
	assert.False(t, plainDay.IsFullyBlocked)
	assert.False(t, plainDay.HasReservations)
}

func TestExecuteEmptyScheduleMarksAllDaysOff(t *testing.T) {
	uc := NewUseCase(&fakeScheduleRepo{}, &fakeReservationRepo{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, Year: 2025, Month: time.February})

	require.NoError(t, err)
	require.Len(t, resp.Days, 28)
	for _, day := range resp.Days {
		assert.True(t, day.IsDayOff, day.Date)
	}
}

func TestExecuteValidation(t *testing.T) {
	uc := NewUseCase(&fakeScheduleRepo{}, &fakeReservationRepo{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 0, Year: 2025, Month: time.June})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BusinessID: 1, Year: 1999, Month: time.June})
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = uc.Execute(context.Background(), &Request{BusinessID: 1, Year: 2025, Month: time.Month(13)})
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
