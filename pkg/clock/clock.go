// Package clock abstracts wall-clock reads so handlers stay deterministic under test.
package clock

import "time"

// ISO8601 renders UTC instants with millisecond precision, e.g. 2024-05-01T10:00:00.000Z.
const ISO8601 = "2006-01-02T15:04:05.000Z07:00"

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns a Clock backed by time.Now in UTC.
func System() Clock { return systemClock{} }

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (f FixedClock) Now() time.Time { return f.At }

// Fixed returns a Clock pinned to t.
func Fixed(t time.Time) Clock { return FixedClock{At: t.UTC()} }

// Func adapts an ordinary function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }

// Format renders t as ISO8601 in UTC.
func Format(t time.Time) string {
	return t.UTC().Format(ISO8601)
}
