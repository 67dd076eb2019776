package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Every aggregation takes an explicit reference date; the clock only
// supplies the default when a caller does not pin one.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
