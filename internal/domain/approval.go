package domain

import "time"

// Decision is a single party's answer to a booking
type Decision string

const (
	DecisionNoResponse Decision = "NoResponse"
	DecisionApproved   Decision = "Approved"
	DecisionDenied     Decision = "Denied"
)

// Valid reports whether d is a known decision
func (d Decision) Valid() bool {
	switch d {
	case DecisionNoResponse, DecisionApproved, DecisionDenied:
		return true
	default:
		return false
	}
}

// Approval is one party's row in a booking's quorum
type Approval struct {
	Party     Party
	Decision  Decision
	Comment   *string // set only for Denied
	DecidedAt *time.Time
}

// IsDecided returns true once the party answered
func (a Approval) IsDecided() bool {
	return a.Decision != DecisionNoResponse
}

// Quorum holds exactly one approval per party, indexed by Party
type Quorum [PartyCount]Approval

// NewQuorum returns a fresh quorum; if self is set, that party is approved at
// the given instant (the requester is also a party)
func NewQuorum(self *Party, at time.Time) Quorum {
	var q Quorum
	q.Reset(self, at)
	return q
}

// Reset puts every approval back to NoResponse, then re-applies self-approval
func (q *Quorum) Reset(self *Party, at time.Time) {
	for _, p := range AllParties {
		q[p] = Approval{Party: p, Decision: DecisionNoResponse}
	}
	if self != nil && self.Valid() {
		decidedAt := at
		q[*self] = Approval{Party: *self, Decision: DecisionApproved, DecidedAt: &decidedAt}
	}
}

// Get returns the approval for p
func (q *Quorum) Get(p Party) Approval {
	return q[p]
}

// Approve records an Approved decision for p
func (q *Quorum) Approve(p Party, at time.Time) {
	decidedAt := at
	q[p] = Approval{Party: p, Decision: DecisionApproved, DecidedAt: &decidedAt}
}

// Deny records a Denied decision with its mandatory comment
func (q *Quorum) Deny(p Party, comment string, at time.Time) {
	decidedAt := at
	c := comment
	q[p] = Approval{Party: p, Decision: DecisionDenied, Comment: &c, DecidedAt: &decidedAt}
}

// AllApproved returns true when every party approved
func (q *Quorum) AllApproved() bool {
	for _, p := range AllParties {
		if q[p].Decision != DecisionApproved {
			return false
		}
	}
	return true
}

// AnyDenied returns true if at least one party denied
func (q *Quorum) AnyDenied() bool {
	for _, p := range AllParties {
		if q[p].Decision == DecisionDenied {
			return true
		}
	}
	return false
}

// Awaiting returns the parties that have not answered yet
func (q *Quorum) Awaiting() []Party {
	parties := make([]Party, 0, PartyCount)
	for _, p := range AllParties {
		if q[p].Decision == DecisionNoResponse {
			parties = append(parties, p)
		}
	}
	return parties
}

// Clone deep-copies the pointer fields
func (q Quorum) Clone() Quorum {
	var c Quorum
	for i, a := range q {
		c[i] = a
		if a.Comment != nil {
			v := *a.Comment
			c[i].Comment = &v
		}
		if a.DecidedAt != nil {
			v := *a.DecidedAt
			c[i].DecidedAt = &v
		}
	}
	return c
}
