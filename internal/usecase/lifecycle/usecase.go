package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// UseCase машина состояний бронирования
// Единственный компонент, который меняет бронирования, согласования и журнал
type UseCase struct {
	bookings BookingRepository
	timeline TimelineRepository
	resolver Resolver
	notifier Notifier
	clock    Clock
	rules    domain.Rules
	metrics  Metrics
	logger   Logger
	newID    func() uuid.UUID
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookings BookingRepository,
	timeline TimelineRepository,
	resolver Resolver,
	notifier Notifier,
	clock Clock,
	rules domain.Rules,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookings: bookings,
		timeline: timeline,
		resolver: resolver,
		notifier: notifier,
		clock:    clock,
		rules:    rules,
		metrics:  metrics,
		logger:   logger,
		newID:    uuid.New,
	}
}

// persist сохраняет бронирование и добавляет события в рамках текущей транзакции
func (uc *UseCase) persist(ctx context.Context, op string, ch *change) error {
	if err := uc.bookings.Update(ctx, ch.booking); err != nil {
		return fmt.Errorf("%s: update booking=%s: %w", op, ch.booking.ID, err)
	}
	return uc.appendEvents(ctx, op, ch)
}

func (uc *UseCase) appendEvents(ctx context.Context, op string, ch *change) error {
	if len(ch.events) == 0 {
		return nil
	}
	if err := uc.timeline.Append(ctx, ch.events); err != nil {
		return fmt.Errorf("%s: append timeline booking=%s: %w", op, ch.booking.ID, err)
	}
	return nil
}

// publish вызывается после фиксации транзакции
// Ошибка доставки не отменяет уже зафиксированный переход
func (uc *UseCase) publish(ctx context.Context, op string, ch *change) {
	for _, e := range ch.events {
		uc.metrics.IncTransition(string(e.Kind))
	}

	for _, n := range ch.notifications {
		if err := uc.notifier.Notify(ctx, n); err != nil {
			uc.logger.Error("%s: notify kind=%s booking=%s failed: %v", op, n.Kind, n.BookingID, err)
			uc.metrics.IncNotifyFailure(string(n.Kind))
		}
	}
}

// checkRequester владелец бронирования - единственный, кто может его менять
func checkRequester(actor domain.Actor, b *domain.Booking) error {
	switch actor.Kind {
	case domain.ActorRequester:
		if b.IsOwnedBy(actor.Email) {
			return nil
		}
		return fmt.Errorf("%w: booking=%s belongs to another requester", domain.ErrForbidden, b.ID)
	case domain.ActorParty, domain.ActorSystem:
		return fmt.Errorf("%w: only the requester may change booking=%s", domain.ErrForbidden, b.ID)
	default:
		return fmt.Errorf("%w: unknown actor", domain.ErrForbidden)
	}
}

// checkNotPast операции над прошедшим бронированием запрещены
func (uc *UseCase) checkNotPast(b *domain.Booking) error {
	if b.IsPast(uc.clock.Today()) {
		return fmt.Errorf("%w: booking=%s ended %s", domain.ErrPastItem, b.ID, b.Range.End.Format(domain.DateFormat))
	}
	return nil
}
