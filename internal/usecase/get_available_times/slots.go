package get_available_times

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/petmily/PM-ReservationService/internal/domain"
	"github.com/petmily/PM-ReservationService/pkg/types"
)

const (
	readRetryBase = 50 * time.Millisecond
	readRetryMax  = 3
)

// occupiedIntervals собирает занятые интервалы дня: активные бронирования
// и административные блокировки. Чтения идут вне транзакции и повторяются
// с экспоненциальной паузой при кратковременных сбоях БД.
func (uc *UseCase) occupiedIntervals(ctx context.Context, businessID int64, date time.Time) ([]domain.Interval, error) {
	var reservations []*domain.Reservation
	var blocks []*domain.TimeBlock

	backoff := retry.WithMaxRetries(readRetryMax, retry.NewExponential(readRetryBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		reservations, err = uc.reservationRepo.GetByBusinessWithFilter(ctx, domain.ReservationsFilter{
			BusinessID: businessID,
			StartDate:  &date,
			EndDate:    &date,
		})
		if err != nil {
			return retry.RetryableError(err)
		}

		blocks, err = uc.reservationRepo.ListActiveBlocksInRange(ctx, businessID, date, date)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	occupied := make([]domain.Interval, 0, len(reservations)+len(blocks))
	for _, reservation := range reservations {
		iv, err := reservation.Interval()
		if err != nil {
			uc.logger.Warn("occupiedIntervals: skipping reservation id=%d with invalid interval: %v",
				reservation.ID, err)
			continue
		}
		occupied = append(occupied, iv)
	}
	for _, block := range blocks {
		iv, err := block.Interval()
		if err != nil {
			uc.logger.Warn("occupiedIntervals: skipping block id=%d with invalid interval: %v", block.ID, err)
			continue
		}
		occupied = append(occupied, iv)
	}

	return occupied, nil
}

// slotStartTimes нарезает свободные интервалы на слоты длительности услуги
// и возвращает времена начала по возрастанию
func slotStartTimes(free []domain.Interval, durationMinutes int) ([]types.TimeString, error) {
	times := make([]types.TimeString, 0)
	for _, iv := range free {
		for _, startMin := range domain.SlotStarts(iv, durationMinutes) {
			ts, err := types.NewTimeStringFromMinutes(startMin)
			if err != nil {
				return nil, err
			}
			times = append(times, ts)
		}
	}
	return times, nil
}

// filterByLeadTime отсекает времена раньше, чем now плюс минимальное
// время до начала услуги
func filterByLeadTime(times []types.TimeString, now time.Time, minLeadMinutes int) []types.TimeString {
	cutoff := now.Hour()*60 + now.Minute() + minLeadMinutes

	filtered := make([]types.TimeString, 0, len(times))
	for _, ts := range times {
		minutes, err := ts.Minutes()
		if err != nil {
			continue
		}
		if minutes > cutoff {
			filtered = append(filtered, ts)
		}
	}
	return filtered
}
