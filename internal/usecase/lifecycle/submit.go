package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// Submit создает бронирование в статусе Pending по протоколу first-write-wins
// Если заявитель - одна из сторон, ее согласование проставляется сразу
func (uc *UseCase) Submit(ctx context.Context, req *SubmitRequest) (*Result, error) {
	uc.logger.Info("Submit: requester=%s, start=%s, end=%s, size=%d",
		req.Actor.Email, req.Start.Format(domain.DateFormat), req.End.Format(domain.DateFormat), req.PartySize)

	// 1. Валидация полей
	rng, firstName, err := validateSubmit(req, uc.rules)
	if err != nil {
		uc.logger.Warn("Submit: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверка окна дат по сегодняшней дате сервиса
	today := uc.clock.Today()
	if err := validateWindow(rng, today, uc.rules, req.LongStayConfirmed); err != nil {
		uc.logger.Warn("Submit: validation failed: %v", err)
		return nil, err
	}

	self := uc.rules.SelfParty(req.Actor.Email)

	var ch *change

	// 3. Захват диапазона и запись в одной сериализуемой транзакции
	err = uc.resolver.Run(ctx, "Submit", func(txCtx context.Context) error {
		if err := uc.resolver.AcquireRange(txCtx, "Submit", rng, uuid.Nil); err != nil {
			return err
		}

		now := uc.clock.Now()
		b := &domain.Booking{
			ID:                 uc.newID(),
			RequesterEmail:     req.Actor.Email,
			RequesterFirstName: firstName,
			Range:              rng,
			PartySize:          req.PartySize,
			Affiliation:        req.Affiliation,
			Description:        req.Description,
			Status:             domain.StatusPending,
			Version:            1,
			Approvals:          domain.NewQuorum(self, now),
			CreatedAt:          now,
		}
		b.Touch(now)

		ch = newChange(b)
		ch.record(domain.EventSubmitted, domain.ActorLabelRequester, now, domain.EventPayload{})
		ch.recordSelfApproval(self, now)
		ch.notify(domain.EventSubmitted, domain.PartyRecipients(b.Approvals.Awaiting()...), domain.EventPayload{})

		if err := uc.bookings.Create(txCtx, b); err != nil {
			return fmt.Errorf("Submit: create booking: %w", err)
		}
		return uc.appendEvents(txCtx, "Submit", ch)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, "Submit", ch)
	uc.logger.Info("Submit: booking=%s created, range=%s, self_approved=%t", ch.booking.ID, rng, self != nil)

	return ch.result(), nil
}
