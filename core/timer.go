package core

import "time"

// Deadline is the next monotonic timestamp (µs) at which a periodic action
// becomes due. The zero Deadline is due immediately.
type Deadline struct {
	at uint64
}

// DeadlineAt returns a deadline that falls due at t.
func DeadlineAt(t uint64) Deadline { return Deadline{at: t} }

// Due reports whether now has reached the deadline.
func (d Deadline) Due(now uint64) bool { return now >= d.at }

// At returns the timestamp of the deadline.
func (d Deadline) At() uint64 { return d.at }

// Rearm schedules the deadline interval µs after now. The base is the
// observed time, not the previous deadline, so a late iteration never
// triggers a burst of catch-up actions.
func (d *Deadline) Rearm(now uint64, intervalUS uint32) {
	d.at = now + uint64(intervalUS)
}

// MicrosToDuration converts a µs count to a time.Duration.
func MicrosToDuration(us uint32) time.Duration {
	return time.Duration(us) * time.Microsecond
}
