package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind enumerates the state-changing events recorded in the timeline
type EventKind string

const (
	EventSubmitted  EventKind = "Submitted"
	EventApproved   EventKind = "Approved"
	EventDenied     EventKind = "Denied"
	EventDateEdited EventKind = "DateEdited"
	EventConfirmed  EventKind = "Confirmed"
	EventCanceled   EventKind = "Canceled"
	EventReopened   EventKind = "Reopened"
)

// TimelineEvent is an append-only audit entry of a booking.
// Within a booking events are ordered by (OccurredAt, Seq).
type TimelineEvent struct {
	Seq        int64 // assigned by the store, monotonic
	BookingID  uuid.UUID
	OccurredAt time.Time
	Kind       EventKind
	Actor      string
	Payload    EventPayload
}

// EventPayload carries kind-specific details. Zero fields are omitted when stored.
type EventPayload struct {
	OldStart     string `json:"old_start,omitempty"`
	OldEnd       string `json:"old_end,omitempty"`
	NewStart     string `json:"new_start,omitempty"`
	NewEnd       string `json:"new_end,omitempty"`
	EditImpact   string `json:"edit_impact,omitempty"`
	Comment      string `json:"comment,omitempty"`
	SelfApproval bool   `json:"self_approval,omitempty"`
	PriorStatus  string `json:"prior_status,omitempty"`
	Automatic    bool   `json:"automatic,omitempty"`
}

// RangeChangePayload describes a date change
func RangeChangePayload(old, updated DateRange, impact EditImpact) EventPayload {
	return EventPayload{
		OldStart:   old.Start.Format(DateFormat),
		OldEnd:     old.End.Format(DateFormat),
		NewStart:   updated.Start.Format(DateFormat),
		NewEnd:     updated.End.Format(DateFormat),
		EditImpact: impact.String(),
	}
}
