package notify

import (
	"encoding/json"
	"time"
)

// MessageType тип сообщения в очереди
type MessageType string

const (
	MessageTypeBookingEvent MessageType = "booking_event"
	MessageTypeDigest       MessageType = "digest"
)

// Envelope конверт сообщения; доставкой и повторами занимается потребитель очереди
type Envelope struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// BookingEventPayload уведомление о переходе бронирования
type BookingEventPayload struct {
	Kind           string          `json:"kind"`
	BookingID      string          `json:"booking_id"`
	RequesterEmail string          `json:"requester_email,omitempty"`
	Recipients     []string        `json:"recipients"`
	Details        json.RawMessage `json:"details,omitempty"`
}

// DigestItem бронирование в напоминании
type DigestItem struct {
	BookingID string `json:"booking_id"`
	FirstName string `json:"first_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// DigestPayload ежедневное напоминание одной стороне
type DigestPayload struct {
	Party    string       `json:"party"`
	Bookings []DigestItem `json:"bookings"`
}
