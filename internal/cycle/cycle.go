// Package cycle computes budgeting windows anchored to a day of the month.
package cycle

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// DefaultStartDay is the cycle start day used when none is configured.
const DefaultStartDay = 28

// Range is an inclusive span of calendar dates.
type Range struct {
	Start civil.Date
	End   civil.Date
}

// Contains reports whether d lies within the range, bounds included.
func (r Range) Contains(d civil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days in the range.
func (r Range) Days() int {
	return r.End.DaysSince(r.Start) + 1
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}

// ComputeRange returns the cycle containing ref for a cycle that starts on
// startDay of every month.
//
// If ref's day of month is at least startDay the cycle starts on startDay of
// ref's month, otherwise on startDay of the previous month. It ends the day
// before the next start. Month and year overflow, and start days past the
// end of a short month, roll over the way time.Date normalises dates: a start
// day of 31 in a 29-day February lands on March 2. ref is guaranteed to be
// inside the result for start days 1 through 28. startDay is clamped to 1..31.
func ComputeRange(startDay int, ref civil.Date) Range {
	startDay = ClampStartDay(startDay)

	month := ref.Month
	if ref.Day < startDay {
		month--
	}
	start := time.Date(ref.Year, month, startDay, 0, 0, 0, 0, time.UTC)
	next := time.Date(ref.Year, month+1, startDay, 0, 0, 0, 0, time.UTC)

	return Range{
		Start: civil.DateOf(start),
		End:   civil.DateOf(next).AddDays(-1),
	}
}

// Current returns the cycle containing now, read in loc.
func Current(startDay int, now time.Time, loc *time.Location) Range {
	return ComputeRange(startDay, DateOf(now, loc))
}

// ClampStartDay forces a start day into 1..31.
func ClampStartDay(day int) int {
	switch {
	case day < 1:
		return 1
	case day > 31:
		return 31
	default:
		return day
	}
}

// ValidStartDay reports whether day is an acceptable cycle start day.
func ValidStartDay(day int) bool {
	return day >= 1 && day <= 31
}

// DateOf returns the calendar date of t as seen in loc, built from local
// components. A nil loc means time.Local.
func DateOf(t time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(t.In(loc))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}
