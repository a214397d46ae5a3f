// Package timeprovider supplies the current instant and the civil date in a
// single fixed timezone. All date arithmetic in the service goes through it.
package timeprovider

import (
	"fmt"
	"time"
)

// Provider returns the current instant and today's civil date.
type Provider struct {
	loc *time.Location
	now func() time.Time
}

// New returns a provider backed by the system clock in the named IANA zone.
func New(timezone string) (*Provider, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("timeprovider: load location %q: %w", timezone, err)
	}
	return &Provider{loc: loc, now: time.Now}, nil
}

// Fixed returns a provider frozen at the given instant. Intended for tests.
func Fixed(at time.Time, loc *time.Location) *Provider {
	return &Provider{loc: loc, now: func() time.Time { return at }}
}

// Now returns the current instant in the provider's zone.
func (p *Provider) Now() time.Time {
	return p.now().In(p.loc)
}

// Today returns the current civil date in the provider's zone, encoded as
// midnight UTC so that dates compare and subtract without DST effects.
func (p *Provider) Today() time.Time {
	return DateOf(p.Now())
}

// Location returns the fixed zone.
func (p *Provider) Location() *time.Location {
	return p.loc
}

// DateOf strips the clock from t, keeping the calendar date as seen in t's zone.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
