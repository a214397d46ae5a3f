package lifecycle

import (
	"time"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// change накапливает события и уведомления одной попытки транзакции
// Создается заново в каждом замыкании, поскольку транзакция может повторяться
type change struct {
	booking       *domain.Booking
	events        []domain.TimelineEvent
	notifications []domain.Notification
}

func newChange(b *domain.Booking) *change {
	return &change{booking: b}
}

func (c *change) record(kind domain.EventKind, actor string, at time.Time, payload domain.EventPayload) {
	c.events = append(c.events, domain.TimelineEvent{
		BookingID:  c.booking.ID,
		OccurredAt: at,
		Kind:       kind,
		Actor:      actor,
		Payload:    payload,
	})
}

func (c *change) notify(kind domain.EventKind, recipients []domain.Recipient, payload domain.EventPayload) {
	if len(recipients) == 0 {
		return
	}
	c.notifications = append(c.notifications, domain.Notification{
		Kind:           kind,
		BookingID:      c.booking.ID,
		RequesterEmail: c.booking.RequesterEmail,
		Recipients:     recipients,
		Payload:        payload,
	})
}

// recordSelfApproval событие автоматического согласования стороны-заявителя
func (c *change) recordSelfApproval(self *domain.Party, at time.Time) {
	if self == nil {
		return
	}
	c.record(domain.EventApproved, self.String(), at, domain.EventPayload{SelfApproval: true})
}

func (c *change) result() *Result {
	return &Result{Booking: c.booking.Clone(), Timeline: c.events}
}
