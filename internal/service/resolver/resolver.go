package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HouseBooking/internal/infra/storage/booking"
)

// Resolver реализует два протокола сериализации поверх транзакций хранилища:
// first-write-wins для захвата диапазона дат и first-action-wins для решений по бронированию
type Resolver struct {
	bookings  BookingRepository
	txManager TransactionManager
	metrics   Metrics
	logger    Logger
}

// NewResolver создает новый экземпляр; metrics может быть nil
func NewResolver(bookings BookingRepository, txManager TransactionManager, metrics Metrics, logger Logger) *Resolver {
	return &Resolver{
		bookings:  bookings,
		txManager: txManager,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run выполняет fn в одной сериализуемой транзакции
// Бизнес-ошибки возвращаются как есть, остальные сводятся к domain.ErrInternalStorage
func (r *Resolver) Run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := r.txManager.DoSerializable(ctx, fn)
	if err == nil || isBusinessError(err) {
		return err
	}

	r.logger.Error("%s: transaction failed: %v", op, err)
	return fmt.Errorf("%w: %s: %w", domain.ErrInternalStorage, op, err)
}

// AcquireRange проверяет, что диапазон свободен, блокируя все пересекающиеся
// Pending/Confirmed строки в порядке (start_date, id)
// Должен вызываться внутри Run, иначе проверка и запись не атомарны
func (r *Resolver) AcquireRange(ctx context.Context, op string, rng domain.DateRange, exclude uuid.UUID) error {
	candidates, err := r.bookings.ListBlocking(ctx, rng, exclude)
	if err != nil {
		return fmt.Errorf("%s: lock range %s: %w", op, rng, err)
	}

	if conflict := domain.FindConflict(rng, candidates, exclude); conflict != nil {
		r.logger.Warn("%s: range %s conflicts with booking=%s (%s)", op, rng, conflict.ID, conflict.Status)
		if r.metrics != nil {
			r.metrics.IncConflict(op)
		}
		return domain.NewConflictError(conflict)
	}

	return nil
}

// WithBookingLocked открывает транзакцию, блокирует строку бронирования, затем
// его строки согласования, и только после этого передает снимок в fn
func (r *Resolver) WithBookingLocked(ctx context.Context, op string, id uuid.UUID, fn func(ctx context.Context, b *domain.Booking) error) error {
	return r.Run(ctx, op, func(txCtx context.Context) error {
		b, err := r.bookings.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: id=%s", domain.ErrNotFound, id)
			}
			return fmt.Errorf("%s: lock booking=%s: %w", op, id, err)
		}
		return fn(txCtx, b)
	})
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrConflict,
		domain.ErrPastItem,
		domain.ErrNotFound,
		domain.ErrForbidden,
		domain.ErrInvalidTransition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
