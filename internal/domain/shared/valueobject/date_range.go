package valueobject

import (
	"errors"
	"time"
)

var (
	ErrEmptyDate      = errors.New("start and end dates are required")
	ErrEndBeforeStart = errors.New("end date must not be before start date")
)

// DateRange is an inclusive range of calendar days
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange truncates both bounds to midnight UTC and validates their order
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, ErrEmptyDate
	}
	s, e := TruncateDay(start), TruncateDay(end)
	if e.Before(s) {
		return DateRange{}, ErrEndBeforeStart
	}
	return DateRange{start: s, end: e}, nil
}

// TruncateDay returns t at midnight UTC of the same calendar day
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current day at midnight UTC
func Today() time.Time {
	return TruncateDay(time.Now())
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

// Days returns the number of calendar days covered, both ends included
func (r DateRange) Days() int {
	return int(r.end.Sub(r.start).Hours()/24) + 1
}

// Contains reports whether day t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	d := TruncateDay(t)
	return !d.Before(r.start) && !d.After(r.end)
}

// Overlaps reports whether the two ranges share at least one day
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.end.Before(other.start) && !other.end.Before(r.start)
}

// StartsBefore reports whether the range begins before day t
func (r DateRange) StartsBefore(t time.Time) bool {
	return r.start.Before(TruncateDay(t))
}
