// Package clock provides the time source used by every time-dependent derivation.
package clock

import "time"

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

// System is the wall clock
type System struct{}

// Now returns time.Now()
func (System) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same instant
type Fixed time.Time

// Now returns the fixed instant
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Or returns c, or the system clock when c is nil
func Or(c Clock) Clock {
	if c == nil {
		return System{}
	}
	return c
}
