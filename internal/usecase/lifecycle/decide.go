package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// Decide записывает решение стороны по протоколу first-action-wins
// Строка бронирования блокируется до чтения статуса; если решение уже не имеет
// смысла, возвращается OutcomeAlreadyResolved без записи
func (uc *UseCase) Decide(ctx context.Context, req *DecideRequest) (*DecideResult, error) {
	uc.logger.Info("Decide: booking=%s, party=%s, decision=%s", req.BookingID, req.Party, req.Decision)

	if err := validateDecide(req); err != nil {
		uc.logger.Warn("Decide: validation failed: %v", err)
		return nil, err
	}

	var (
		ch      *change
		outcome Outcome
	)

	err := uc.resolver.WithBookingLocked(ctx, "Decide", req.BookingID, func(txCtx context.Context, b *domain.Booking) error {
		ch = newChange(b)
		outcome = OutcomeApplied

		if req.Actor.Kind != domain.ActorParty || req.Actor.Party != req.Party {
			return fmt.Errorf("%w: actor may not decide for party %s", domain.ErrForbidden, req.Party)
		}
		if err := uc.checkNotPast(b); err != nil {
			return err
		}

		now := uc.clock.Now()
		var applied bool
		if req.Decision == domain.DecisionApproved {
			applied = uc.applyApproval(ch, req.Party, now)
		} else {
			applied = uc.applyDenial(ch, req.Party, trimmedComment(req.Comment), now)
		}

		if !applied {
			outcome = OutcomeAlreadyResolved
			return nil
		}

		b.Touch(now)
		return uc.persist(txCtx, "Decide", ch)
	})
	if err != nil {
		uc.logger.Warn("Decide: booking=%s rejected: %v", req.BookingID, err)
		return nil, err
	}

	if outcome == OutcomeAlreadyResolved {
		uc.metrics.IncAlreadyResolved(string(req.Decision))
		uc.logger.Info("Decide: booking=%s already resolved (status=%s)", req.BookingID, ch.booking.Status)
	} else {
		uc.publish(ctx, "Decide", ch)
		uc.logger.Info("Decide: booking=%s party=%s %s, status=%s", req.BookingID, req.Party, req.Decision, ch.booking.Status)
	}

	return &DecideResult{Result: *ch.result(), Outcome: outcome}, nil
}

// applyApproval согласование возможно только пока бронирование в Pending
func (uc *UseCase) applyApproval(ch *change, party domain.Party, now time.Time) bool {
	b := ch.booking
	if b.Status != domain.StatusPending || b.IsArchived() {
		return false
	}
	if b.Approvals.Get(party).IsDecided() {
		return false
	}

	b.Approvals.Approve(party, now)
	ch.record(domain.EventApproved, party.String(), now, domain.EventPayload{})

	if !b.Approvals.AllApproved() {
		ch.notify(domain.EventApproved, []domain.Recipient{domain.RequesterRecipient()}, domain.EventPayload{})
		return true
	}

	b.Status = domain.StatusConfirmed
	ch.record(domain.EventConfirmed, party.String(), now, domain.EventPayload{})
	ch.notify(domain.EventConfirmed,
		append([]domain.Recipient{domain.RequesterRecipient()}, domain.AllPartyRecipients()...),
		domain.EventPayload{})
	return true
}

// applyDenial отклонение возможно из Pending и Confirmed
// В Pending у стороны может быть только одно решение: после ее Approve отказ уже не применяется
// В Confirmed согласовавшая сторона сохраняет свою строку Approved, меняется только статус
func (uc *UseCase) applyDenial(ch *change, party domain.Party, comment string, now time.Time) bool {
	b := ch.booking
	if (b.Status != domain.StatusPending && b.Status != domain.StatusConfirmed) || b.IsArchived() {
		return false
	}
	if b.Status == domain.StatusPending && b.Approvals.Get(party).IsDecided() {
		return false
	}

	prior := b.Status
	if !b.Approvals.Get(party).IsDecided() {
		b.Approvals.Deny(party, comment, now)
	}
	b.Status = domain.StatusDenied

	payload := domain.EventPayload{Comment: comment, PriorStatus: string(prior)}
	ch.record(domain.EventDenied, party.String(), now, payload)

	recipients := []domain.Recipient{domain.RequesterRecipient()}
	for _, p := range domain.AllParties {
		if p != party {
			recipients = append(recipients, domain.PartyRecipient(p))
		}
	}
	ch.notify(domain.EventDenied, recipients, payload)
	return true
}
