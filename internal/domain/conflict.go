package domain

import (
	"sort"

	"github.com/google/uuid"
)

// FindConflict returns the first blocking booking overlapping rng, ignoring
// exclude (the booking being edited or reopened). Candidates are ordered by
// start date then id so the reported contender is deterministic.
func FindConflict(rng DateRange, candidates []*Booking, exclude uuid.UUID) *Booking {
	sorted := make([]*Booking, 0, len(candidates))
	for _, b := range candidates {
		if b == nil || b.ID == exclude || !b.IsBlocking() {
			continue
		}
		if b.Range.Overlaps(rng) {
			sorted = append(sorted, b)
		}
	}
	if len(sorted) == 0 {
		return nil
	}

	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Range.Start.Equal(sorted[j].Range.Start) {
			return sorted[i].Range.Start.Before(sorted[j].Range.Start)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})
	return sorted[0]
}
