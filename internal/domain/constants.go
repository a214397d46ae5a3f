package domain

import "time"

// Default business rule values
const (
	DefaultMaxPartySize           = 10
	DefaultFutureHorizonMonths    = 18
	DefaultLongStayThresholdDays  = 7
	DefaultDigestAgeThresholdDays = 5
	DefaultArchiveRetentionDays   = 365
	DefaultTimezone               = "Europe/Berlin"
)

// Field validation constants
const (
	MaxFirstNameLength   = 40
	MaxDescriptionLength = 500
	MaxEmailLength       = 254
	MaxCommentLength     = 500
)

// List limits for read views
const (
	OutstandingListLimit = 50
	HistoryListLimit     = 100
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses occupy the calendar
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// Rules are the business thresholds injected at startup, immutable afterwards
type Rules struct {
	MaxPartySize           int
	FutureHorizonMonths    int
	LongStayThresholdDays  int
	DigestAgeThresholdDays int
	ArchiveRetention       time.Duration
	PartyEmails            [PartyCount]string // normalized emails of the fixed parties
}

// DefaultRules returns the rules with default thresholds and the given party emails
func DefaultRules(partyEmails [PartyCount]string) Rules {
	r := Rules{
		MaxPartySize:           DefaultMaxPartySize,
		FutureHorizonMonths:    DefaultFutureHorizonMonths,
		LongStayThresholdDays:  DefaultLongStayThresholdDays,
		DigestAgeThresholdDays: DefaultDigestAgeThresholdDays,
		ArchiveRetention:       DefaultArchiveRetentionDays * 24 * time.Hour,
	}
	for i, email := range partyEmails {
		r.PartyEmails[i] = NormalizeEmail(email)
	}
	return r
}

// PartyByEmail returns the party whose email matches, if any
func (r Rules) PartyByEmail(email string) (Party, bool) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return 0, false
	}
	for _, p := range AllParties {
		if r.PartyEmails[p] == normalized {
			return p, true
		}
	}
	return 0, false
}

// SelfParty returns a pointer suitable for NewQuorum/Reset
func (r Rules) SelfParty(email string) *Party {
	if p, ok := r.PartyByEmail(email); ok {
		return &p
	}
	return nil
}

// HorizonEnd returns the last start date accepted for a new request
func (r Rules) HorizonEnd(today time.Time) time.Time {
	return today.AddDate(0, r.FutureHorizonMonths, 0)
}

// IsLongStay reports whether the range needs an explicit confirmation
func (r Rules) IsLongStay(rng DateRange) bool {
	return rng.TotalDays() > r.LongStayThresholdDays
}
