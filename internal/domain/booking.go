package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusDenied    BookingStatus = "Denied"
	StatusCanceled  BookingStatus = "Canceled"
)

// Valid reports whether s is a known status
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDenied, StatusCanceled:
		return true
	default:
		return false
	}
}

// IsBlocking returns true if a booking in this status occupies the calendar
func (s BookingStatus) IsBlocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Booking represents a whole-day request for the shared calendar
type Booking struct {
	ID                 uuid.UUID
	RequesterEmail     string // normalized to lower case, immutable
	RequesterFirstName string
	Range              DateRange
	PartySize          int
	Affiliation        Party
	Description        *string
	Status             BookingStatus
	Version            int64 // bumped on every write, used for optimistic checks

	Approvals Quorum

	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastActivityAt time.Time
	ArchivedAt     *time.Time // non-nil once moved to the archive partition
}

// TotalDays returns the inclusive length of the booking
func (b *Booking) TotalDays() int {
	return b.Range.TotalDays()
}

// IsArchived returns true if the booking lives in the archive partition
func (b *Booking) IsArchived() bool {
	return b.ArchivedAt != nil
}

// IsBlocking returns true if the booking currently occupies its dates
func (b *Booking) IsBlocking() bool {
	return !b.IsArchived() && b.Status.IsBlocking()
}

// IsPast returns true once the whole range lies before today
func (b *Booking) IsPast(today time.Time) bool {
	return b.Range.IsPast(today)
}

// IsOwnedBy reports whether email belongs to the requester
func (b *Booking) IsOwnedBy(email string) bool {
	return NormalizeEmail(email) == b.RequesterEmail
}

// Touch records a mutation at the given instant
func (b *Booking) Touch(at time.Time) {
	b.UpdatedAt = at
	b.LastActivityAt = at
}

// Clone returns a deep copy, so callers can keep a snapshot across mutations
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.Description != nil {
		d := *b.Description
		c.Description = &d
	}
	if b.ArchivedAt != nil {
		a := *b.ArchivedAt
		c.ArchivedAt = &a
	}
	c.Approvals = b.Approvals.Clone()
	return &c
}
