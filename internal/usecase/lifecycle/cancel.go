package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
	"github.com/m04kA/SMC-HouseBooking/pkg/ptr"
)

// Cancel переводит бронирование в Canceled и перемещает его в архив
// Доступно только заявителю; повторная отмена ничего не меняет
func (uc *UseCase) Cancel(ctx context.Context, req *CancelRequest) (*Result, error) {
	uc.logger.Info("Cancel: booking=%s, requester=%s", req.BookingID, req.Actor.Email)

	if err := validateOptionalComment(req.Comment); err != nil {
		uc.logger.Warn("Cancel: validation failed: %v", err)
		return nil, err
	}

	var ch *change

	err := uc.resolver.WithBookingLocked(ctx, "Cancel", req.BookingID, func(txCtx context.Context, b *domain.Booking) error {
		ch = newChange(b)

		if err := checkRequester(req.Actor, b); err != nil {
			return err
		}
		if err := uc.checkNotPast(b); err != nil {
			return err
		}

		comment := trimmedComment(req.Comment)
		recipients := domain.AllPartyRecipients()

		switch b.Status {
		case domain.StatusCanceled:
			return nil
		case domain.StatusPending:
		case domain.StatusConfirmed:
			if comment == "" {
				return domain.NewValidationError("comment", "a reason is required to cancel a confirmed booking")
			}
			if !req.ConfirmedCancel {
				return domain.NewValidationError("confirmed_cancel", "canceling a confirmed booking must be confirmed explicitly")
			}
		case domain.StatusDenied:
			recipients = []domain.Recipient{domain.RequesterRecipient()}
		default:
			return fmt.Errorf("%w: unknown status %s", domain.ErrInvalidTransition, b.Status)
		}

		now := uc.clock.Now()
		payload := domain.EventPayload{Comment: comment, PriorStatus: string(b.Status)}
		archive(b, now)

		ch.record(domain.EventCanceled, domain.ActorLabelRequester, now, payload)
		ch.notify(domain.EventCanceled, recipients, payload)

		return uc.persist(txCtx, "Cancel", ch)
	})
	if err != nil {
		uc.logger.Warn("Cancel: booking=%s rejected: %v", req.BookingID, err)
		return nil, err
	}

	uc.publish(ctx, "Cancel", ch)
	uc.logger.Info("Cancel: booking=%s canceled", req.BookingID)

	return ch.result(), nil
}

// archive терминальный переход: Canceled + архив
func archive(b *domain.Booking, now time.Time) {
	b.Status = domain.StatusCanceled
	b.ArchivedAt = ptr.Ptr(now)
	b.Touch(now)
}
