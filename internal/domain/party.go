package domain

import (
	"database/sql/driver"
	"fmt"
)

// Party is one of the three fixed approving parties. The same three labels
// are used for a booking's affiliation, which is purely descriptive.
type Party uint8

const (
	PartyIngeborg Party = iota
	PartyCornelia
	PartyAngelika

	// PartyCount is the fixed size of the approval quorum.
	PartyCount = 3
)

// AllParties lists the parties in their canonical order.
var AllParties = [PartyCount]Party{PartyIngeborg, PartyCornelia, PartyAngelika}

var partyNames = [PartyCount]string{"Ingeborg", "Cornelia", "Angelika"}

// String returns the party label as stored and displayed.
func (p Party) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Party(%d)", uint8(p))
	}
	return partyNames[p]
}

// Valid reports whether p is one of the three fixed parties.
func (p Party) Valid() bool {
	return p < PartyCount
}

// ParseParty converts a stored label into a Party.
func ParseParty(s string) (Party, error) {
	for i, name := range partyNames {
		if name == s {
			return Party(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown party %q", ErrValidation, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Party) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid party %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Party) UnmarshalText(text []byte) error {
	parsed, err := ParseParty(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer.
func (p Party) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid party %d", uint8(p))
	}
	return p.String(), nil
}

// Scan implements sql.Scanner.
func (p *Party) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return p.UnmarshalText([]byte(v))
	case []byte:
		return p.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Party", src)
	}
}
