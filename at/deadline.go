package at

import "time"

// Deadline is an absolute point in time against which polled wait
// loops are bounded. Keeping the arithmetic here, instead of spreading
// start/elapsed pairs through every loop, makes the timeout behavior
// testable with synthetic clock values.
type Deadline time.Time

// DeadlineAfter returns the deadline d from now.
func DeadlineAfter(now time.Time, d time.Duration) Deadline {
	return Deadline(now.Add(d))
}

// Expired reports whether the deadline has passed at the given instant.
func (d Deadline) Expired(now time.Time) bool {
	return !now.Before(time.Time(d))
}

// Remaining returns the time left until the deadline, or zero if it
// has already expired.
func (d Deadline) Remaining(now time.Time) time.Duration {
	if d.Expired(now) {
		return 0
	}
	return time.Time(d).Sub(now)
}
