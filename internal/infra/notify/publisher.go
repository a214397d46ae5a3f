package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// Pusher часть redis.Cmdable, нужная для публикации
type Pusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
}

// Publisher кладет уведомления в Redis-список
type Publisher struct {
	client Pusher
	queue  string
	logger Logger
	now    func() time.Time
}

// NewPublisher создает публикатор в очередь queue
func NewPublisher(client Pusher, queue string, logger Logger) *Publisher {
	return &Publisher{client: client, queue: queue, logger: logger, now: time.Now}
}

// Notify публикует уведомление о событии бронирования
func (p *Publisher) Notify(ctx context.Context, n domain.Notification) error {
	if len(n.Recipients) == 0 {
		return nil
	}

	recipients := make([]string, len(n.Recipients))
	for i, r := range n.Recipients {
		recipients[i] = r.String()
	}

	details, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("%w: Notify - details: %v", ErrMarshal, err)
	}

	payload := BookingEventPayload{
		Kind:           string(n.Kind),
		BookingID:      n.BookingID.String(),
		RequesterEmail: n.RequesterEmail,
		Recipients:     recipients,
		Details:        details,
	}

	if err := p.publish(ctx, MessageTypeBookingEvent, payload); err != nil {
		return err
	}
	p.logger.Debug("Notify: booking=%s kind=%s recipients=%v", n.BookingID, n.Kind, recipients)
	return nil
}

// NotifyDigest публикует напоминание для стороны
func (p *Publisher) NotifyDigest(ctx context.Context, d domain.PartyDigest) error {
	items := make([]DigestItem, 0, len(d.Bookings))
	for _, b := range d.Bookings {
		items = append(items, DigestItem{
			BookingID: b.ID.String(),
			FirstName: b.RequesterFirstName,
			StartDate: b.Range.Start.Format(domain.DateFormat),
			EndDate:   b.Range.End.Format(domain.DateFormat),
		})
	}

	if err := p.publish(ctx, MessageTypeDigest, DigestPayload{Party: d.Party.String(), Bookings: items}); err != nil {
		return err
	}
	p.logger.Debug("NotifyDigest: party=%s bookings=%d", d.Party, len(items))
	return nil
}

func (p *Publisher) publish(ctx context.Context, msgType MessageType, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrMarshal, msgType, err)
	}

	raw, err := json.Marshal(Envelope{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   body,
		CreatedAt: p.now(),
	})
	if err != nil {
		return fmt.Errorf("%w: %s envelope: %v", ErrMarshal, msgType, err)
	}

	if err := p.client.RPush(ctx, p.queue, raw).Err(); err != nil {
		return fmt.Errorf("%w: rpush %s: %v", ErrPublish, p.queue, err)
	}
	return nil
}

// Nop используется, когда очередь выключена
type Nop struct{}

// Notify ничего не делает
func (Nop) Notify(context.Context, domain.Notification) error { return nil }

// NotifyDigest ничего не делает
func (Nop) NotifyDigest(context.Context, domain.PartyDigest) error { return nil }
