package sweeper

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

const (
	sweepAutoCancel = "auto_cancel"
	sweepPurge      = "purge"
)

// UseCase два независимых идемпотентных прохода: автоотмена и очистка архива
type UseCase struct {
	bookingRepo BookingRepository
	lifecycle   Lifecycle
	clock       Clock
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, lifecycle Lifecycle, clock Clock, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		lifecycle:   lifecycle,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
	}
}

// RunAutoCancel отменяет Pending бронирования, диапазон которых уже прошел
// Каждое бронирование отменяется в своей транзакции; ошибка по одному не останавливает проход
func (uc *UseCase) RunAutoCancel(ctx context.Context) (int, error) {
	today := uc.clock.Today()

	ids, err := uc.bookingRepo.ListLapsedPendingIDs(ctx, today)
	if err != nil {
		uc.logger.Error("RunAutoCancel: failed to list lapsed bookings: %v", err)
		return 0, fmt.Errorf("%w: RunAutoCancel - list lapsed: %v", ErrSweep, err)
	}

	var (
		canceled int
		errs     []error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		_, applied, err := uc.lifecycle.AutoCancel(ctx, id)
		if err != nil {
			uc.logger.Warn("RunAutoCancel: booking=%s failed: %v", id, err)
			errs = append(errs, fmt.Errorf("booking %s: %w", id, err))
			continue
		}
		if applied {
			canceled++
		}
	}

	uc.metrics.AddSweepAffected(sweepAutoCancel, canceled)
	uc.logger.Info("RunAutoCancel: today=%s, candidates=%d, canceled=%d", today.Format(domain.DateFormat), len(ids), canceled)

	if len(errs) > 0 {
		return canceled, fmt.Errorf("%w: RunAutoCancel: %w", ErrSweep, errors.Join(errs...))
	}
	return canceled, nil
}

// RunPurge физически удаляет устаревшие архивные записи
func (uc *UseCase) RunPurge(ctx context.Context) (int64, error) {
	deleted, err := uc.lifecycle.Purge(ctx)
	if err != nil {
		uc.logger.Error("RunPurge: failed: %v", err)
		return 0, fmt.Errorf("%w: RunPurge: %w", ErrSweep, err)
	}

	uc.metrics.AddSweepAffected(sweepPurge, int(deleted))
	uc.logger.Info("RunPurge: deleted=%d", deleted)
	return deleted, nil
}
