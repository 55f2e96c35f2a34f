// Package clock provides time utilities for slot-based scheduling.
// The current time is an injected dependency so services that compare
// against "now" stay deterministic under test.
package clock

import "time"

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// realClock reads the system clock.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// New returns a Clock backed by the system clock.
func New() Clock {
	return realClock{}
}

// Fixed returns a Clock that always reports the given instant.
// Intended for tests.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time { return f.t }

// SlotOf truncates an instant to the start of its containing hour.
// Minutes, seconds and sub-second components are zeroed; the location
// is preserved.
func SlotOf(t time.Time) time.Time {
	return t.Truncate(time.Hour)
}

// IsPast reports whether t is strictly before now.
func IsPast(t, now time.Time) bool {
	return t.Before(now)
}

// FormatSlot renders an instant the way notifications and email show it,
// e.g. "Monday, January 2, 2006 at 15:04".
func FormatSlot(t time.Time) string {
	return t.Format("Monday, January 2, 2006 at 15:04")
}
