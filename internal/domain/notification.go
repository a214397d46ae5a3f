package domain

import "github.com/google/uuid"

// Recipient is either the requester or one of the parties
type Recipient struct {
	Requester bool
	Party     Party // meaningful when Requester is false
}

// RequesterRecipient addresses the booking's requester
func RequesterRecipient() Recipient {
	return Recipient{Requester: true}
}

// PartyRecipient addresses a party
func PartyRecipient(p Party) Recipient {
	return Recipient{Party: p}
}

// MarshalText encodes the recipient as its label
func (r Recipient) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// String returns "Requester" or the party label
func (r Recipient) String() string {
	if r.Requester {
		return ActorLabelRequester
	}
	return r.Party.String()
}

// Notification says what happened and whom to tell; delivery belongs to the notifier
type Notification struct {
	Kind           EventKind
	BookingID      uuid.UUID
	RequesterEmail string
	Recipients     []Recipient
	Payload        EventPayload
}

// PartyDigest is the reminder list for one party, soonest start first
type PartyDigest struct {
	Party    Party
	Bookings []*Booking
}

// PartyRecipients converts parties into recipients
func PartyRecipients(parties ...Party) []Recipient {
	out := make([]Recipient, 0, len(parties))
	for _, p := range parties {
		out = append(out, PartyRecipient(p))
	}
	return out
}

// AllPartyRecipients addresses every party
func AllPartyRecipients() []Recipient {
	return PartyRecipients(AllParties[:]...)
}
