package domain

// EditImpact classifies how a date change affects existing approvals
type EditImpact uint8

const (
	// EditUnchanged - same range, approvals untouched, nothing logged
	EditUnchanged EditImpact = iota
	// EditShortened - new range inside the old one, approvals untouched, logged
	EditShortened
	// EditExtended - range grew on either side, approvals reset, logged
	EditExtended
)

// String returns the label stored in timeline payloads
func (e EditImpact) String() string {
	switch e {
	case EditUnchanged:
		return "Unchanged"
	case EditShortened:
		return "Shortened"
	case EditExtended:
		return "Extended"
	default:
		return "Unknown"
	}
}

// ResetsApprovals reports whether the quorum must start over
func (e EditImpact) ResetsApprovals() bool {
	return e == EditExtended
}

// ClassifyEdit compares the old and new ranges.
// Any day of the new range outside the old one makes the edit Extended.
func ClassifyEdit(old, updated DateRange) EditImpact {
	switch {
	case old.Equal(updated):
		return EditUnchanged
	case old.Contains(updated):
		return EditShortened
	default:
		return EditExtended
	}
}
