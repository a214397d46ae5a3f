package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// AutoCancel отменяет просроченное Pending бронирование от имени System
// Условия перепроверяются под блокировкой, поэтому повторный вызов ничего не меняет
// Уведомления не отправляются
func (uc *UseCase) AutoCancel(ctx context.Context, id uuid.UUID) (*Result, bool, error) {
	var (
		ch      *change
		applied bool
	)

	err := uc.resolver.WithBookingLocked(ctx, "AutoCancel", id, func(txCtx context.Context, b *domain.Booking) error {
		ch = newChange(b)
		applied = false

		if b.Status != domain.StatusPending || b.IsArchived() || !b.IsPast(uc.clock.Today()) {
			return nil
		}

		now := uc.clock.Now()
		payload := domain.EventPayload{PriorStatus: string(b.Status), Automatic: true}
		archive(b, now)
		ch.record(domain.EventCanceled, domain.SystemActor().TimelineLabel(), now, payload)

		applied = true
		return uc.persist(txCtx, "AutoCancel", ch)
	})
	if err != nil {
		return nil, false, err
	}

	if applied {
		uc.publish(ctx, "AutoCancel", ch)
		uc.logger.Info("AutoCancel: booking=%s lapsed on %s, canceled", id, ch.booking.Range.End.Format(domain.DateFormat))
	}

	return ch.result(), applied, nil
}

// Purge физически удаляет архивные Canceled старше срока хранения и прошедшие Denied
// Confirmed не удаляются независимо от возраста
func (uc *UseCase) Purge(ctx context.Context) (int64, error) {
	now := uc.clock.Now()
	today := uc.clock.Today()
	archivedBefore := now.Add(-uc.rules.ArchiveRetention)

	var deleted int64
	err := uc.resolver.Run(ctx, "Purge", func(txCtx context.Context) error {
		n, err := uc.bookings.DeletePurgeable(txCtx, archivedBefore, today)
		if err != nil {
			return fmt.Errorf("Purge: delete: %w", err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		uc.logger.Info("Purge: deleted %d bookings (archived before %s, denied ended before %s)",
			deleted, archivedBefore.Format(domain.DateFormat), today.Format(domain.DateFormat))
	}
	return deleted, nil
}
