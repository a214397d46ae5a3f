package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-HouseBooking/pkg/timeprovider"
)

const day = 24 * time.Hour

// DateRange is an inclusive range of civil dates. Both bounds are stored as
// midnight UTC, so subtraction yields whole days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range, dropping any clock component
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: timeprovider.DateOf(start), End: timeprovider.DateOf(end)}
	if r.Start.IsZero() || r.End.IsZero() {
		return DateRange{}, NewValidationError("range", "start and end dates are required")
	}
	if r.End.Before(r.Start) {
		return DateRange{}, NewValidationError("range", "end date must not be before start date")
	}
	return r, nil
}

// TotalDays returns end - start + 1
func (r DateRange) TotalDays() int {
	return int(r.End.Sub(r.Start)/day) + 1
}

// Overlaps returns true if the two inclusive ranges share at least one day
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// Contains returns true if o lies entirely inside r
func (r DateRange) Contains(o DateRange) bool {
	return !o.Start.Before(r.Start) && !o.End.After(r.End)
}

// Equal compares both bounds
func (r DateRange) Equal(o DateRange) bool {
	return r.Start.Equal(o.Start) && r.End.Equal(o.End)
}

// IsPast returns true once end < today
func (r DateRange) IsPast(today time.Time) bool {
	return r.End.Before(today)
}

// String formats the range as YYYY-MM-DD..YYYY-MM-DD
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(DateFormat), r.End.Format(DateFormat))
}
