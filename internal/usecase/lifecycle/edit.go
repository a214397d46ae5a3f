package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// Edit меняет Pending бронирование
// Сокращение диапазона сохраняет согласования, расширение сбрасывает их;
// в журнал пишется только изменение дат
func (uc *UseCase) Edit(ctx context.Context, req *EditRequest) (*Result, error) {
	uc.logger.Info("Edit: booking=%s, requester=%s", req.BookingID, req.Actor.Email)

	if err := validateEdit(req, uc.rules); err != nil {
		uc.logger.Warn("Edit: validation failed: %v", err)
		return nil, err
	}

	var (
		ch     *change
		impact domain.EditImpact
	)

	err := uc.resolver.WithBookingLocked(ctx, "Edit", req.BookingID, func(txCtx context.Context, b *domain.Booking) error {
		ch = newChange(b)

		if err := checkRequester(req.Actor, b); err != nil {
			return err
		}
		if err := uc.checkNotPast(b); err != nil {
			return err
		}
		if b.Status != domain.StatusPending {
			return fmt.Errorf("%w: edit requires Pending, booking=%s is %s", domain.ErrInvalidTransition, b.ID, b.Status)
		}

		// 1. Новый диапазон и его влияние на согласования
		newRange, err := mergeRange(b.Range, req.Start, req.End)
		if err != nil {
			return err
		}
		impact = domain.ClassifyEdit(b.Range, newRange)

		now := uc.clock.Now()
		if impact != domain.EditUnchanged {
			longStayConfirmed := req.LongStayConfirmed || impact != domain.EditExtended
			if err := validateHorizon(newRange, uc.clock.Today(), uc.rules, longStayConfirmed); err != nil {
				return err
			}
			if err := uc.resolver.AcquireRange(txCtx, "Edit", newRange, b.ID); err != nil {
				return err
			}

			payload := domain.RangeChangePayload(b.Range, newRange, impact)
			b.Range = newRange
			ch.record(domain.EventDateEdited, domain.ActorLabelRequester, now, payload)
			ch.notify(domain.EventDateEdited, domain.AllPartyRecipients(), payload)

			if impact.ResetsApprovals() {
				self := uc.rules.SelfParty(b.RequesterEmail)
				b.Approvals.Reset(self, now)
				ch.recordSelfApproval(self, now)
			}
		}

		// 2. Поля без влияния на согласования
		fieldsChanged := applyFields(b, req)

		if impact == domain.EditUnchanged && !fieldsChanged {
			return nil
		}

		b.Touch(now)
		return uc.persist(txCtx, "Edit", ch)
	})
	if err != nil {
		uc.logger.Warn("Edit: booking=%s rejected: %v", req.BookingID, err)
		return nil, err
	}

	uc.publish(ctx, "Edit", ch)
	uc.logger.Info("Edit: booking=%s updated, impact=%s", req.BookingID, impact)

	return ch.result(), nil
}

// applyFields возвращает true, если хотя бы одно поле изменилось
func applyFields(b *domain.Booking, req *EditRequest) bool {
	changed := false

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name != b.RequesterFirstName {
			b.RequesterFirstName = name
			changed = true
		}
	}
	if req.PartySize != nil && *req.PartySize != b.PartySize {
		b.PartySize = *req.PartySize
		changed = true
	}
	if req.Affiliation != nil && *req.Affiliation != b.Affiliation {
		b.Affiliation = *req.Affiliation
		changed = true
	}
	if req.Description != nil && (b.Description == nil || *b.Description != *req.Description) {
		d := *req.Description
		b.Description = &d
		changed = true
	}

	return changed
}
