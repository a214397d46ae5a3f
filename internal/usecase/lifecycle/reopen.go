package lifecycle

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// Reopen возвращает отклоненное бронирование в Pending с полным сбросом согласований
// При конфликте диапазона состояние не меняется (транзакция откатывается)
func (uc *UseCase) Reopen(ctx context.Context, req *ReopenRequest) (*Result, error) {
	uc.logger.Info("Reopen: booking=%s, requester=%s", req.BookingID, req.Actor.Email)

	var ch *change

	err := uc.resolver.WithBookingLocked(ctx, "Reopen", req.BookingID, func(txCtx context.Context, b *domain.Booking) error {
		ch = newChange(b)

		if err := checkRequester(req.Actor, b); err != nil {
			return err
		}
		if err := uc.checkNotPast(b); err != nil {
			return err
		}
		if b.Status != domain.StatusDenied {
			return fmt.Errorf("%w: reopen requires Denied, booking=%s is %s", domain.ErrInvalidTransition, b.ID, b.Status)
		}

		newRange, err := mergeRange(b.Range, req.Start, req.End)
		if err != nil {
			return err
		}
		impact := domain.ClassifyEdit(b.Range, newRange)
		if impact != domain.EditUnchanged {
			longStayConfirmed := req.LongStayConfirmed || impact != domain.EditExtended
			if err := validateHorizon(newRange, uc.clock.Today(), uc.rules, longStayConfirmed); err != nil {
				return err
			}
		}

		// Диапазон мог быть занят, пока бронирование было отклонено
		if err := uc.resolver.AcquireRange(txCtx, "Reopen", newRange, b.ID); err != nil {
			return err
		}

		now := uc.clock.Now()
		payload := domain.EventPayload{PriorStatus: string(b.Status)}
		if impact != domain.EditUnchanged {
			payload = domain.RangeChangePayload(b.Range, newRange, impact)
			payload.PriorStatus = string(b.Status)
		}

		self := uc.rules.SelfParty(b.RequesterEmail)
		b.Range = newRange
		b.Status = domain.StatusPending
		b.Approvals.Reset(self, now)
		b.Touch(now)

		ch.record(domain.EventReopened, domain.ActorLabelRequester, now, payload)
		ch.recordSelfApproval(self, now)
		ch.notify(domain.EventReopened, domain.PartyRecipients(b.Approvals.Awaiting()...), payload)

		return uc.persist(txCtx, "Reopen", ch)
	})
	if err != nil {
		uc.logger.Warn("Reopen: booking=%s rejected: %v", req.BookingID, err)
		return nil, err
	}

	uc.publish(ctx, "Reopen", ch)
	uc.logger.Info("Reopen: booking=%s back to Pending, range=%s", req.BookingID, ch.booking.Range)

	return ch.result(), nil
}
