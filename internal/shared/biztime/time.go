// Package biztime provides the clock used to stamp a digest.
// All formatting happens in the configured digest timezone; the clock is
// injected so rendering stays deterministic under test.
package biztime

import (
	"fmt"
	"time"
)

const (
	// DefaultTimezone is used when the config leaves timezone empty.
	DefaultTimezone = "UTC"

	longDateLayout  = "January 2, 2006"
	shortDateLayout = "02.01.2006"
)

// Clock returns the current time in the digest timezone.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewClock loads tz (IANA name) and returns a wall clock in that zone.
func NewClock(tz string) (Clock, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	return &systemClock{loc: loc}, nil
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// LongDate formats t as "January 2, 2006" for the digest header.
func LongDate(t time.Time) string {
	return t.Format(longDateLayout)
}

// ShortDate formats t as "02.01.2006" for subject lines.
func ShortDate(t time.Time) string {
	return t.Format(shortDateLayout)
}

// ISODate formats t as a machine readable date.
func ISODate(t time.Time) string {
	return t.Format(time.DateOnly)
}
