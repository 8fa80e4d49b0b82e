package interval

import (
	"errors"
	"time"
)

var ErrInvalidInterval = errors.New("interval end must be after start")

// Interval is a half-open time range [Start, End). The end instant is
// excluded, so back-to-back bookings do not count as overlapping.
type Interval struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether the two intervals share any instant.
// Touching intervals (a.End == b.Start) are not overlapping.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Contains reports whether inner lies fully within i.
func (i Interval) Contains(inner Interval) bool {
	return !i.Start.After(inner.Start) && !inner.End.After(i.End)
}
