package app

import "sync/atomic"

// DefaultMaxRequests is the default cap on concurrent transmission attempts.
const DefaultMaxRequests = 10

// Limiter tracks the number of in-flight transmission attempts. It is the
// only state shared between concurrent send cycles, so Reserve and Release
// must stay balanced: exactly one Release for every Reserve, on every path.
type Limiter struct {
	capacity int32
	inFlight atomic.Int32
}

// NewLimiter creates a limiter with the given capacity.
// A non-positive capacity falls back to DefaultMaxRequests.
func NewLimiter(capacity int) *Limiter {
	if capacity <= 0 {
		capacity = DefaultMaxRequests
	}
	return &Limiter{capacity: int32(capacity)}
}

// Count returns the number of attempts currently reserved.
func (l *Limiter) Count() int {
	return int(l.inFlight.Load())
}

// Capacity returns the maximum number of concurrent attempts.
func (l *Limiter) Capacity() int {
	return int(l.capacity)
}

// AtCapacity reports whether a new attempt should be refused. This is a
// soft admission check: the caller observes it before reserving, so a burst
// of concurrent triggers may briefly overshoot the cap.
func (l *Limiter) AtCapacity() bool {
	return l.inFlight.Load() >= l.capacity
}

// Reserve marks the start of a transmission attempt.
func (l *Limiter) Reserve() {
	l.inFlight.Add(1)
}

// Release marks the end of a transmission attempt.
func (l *Limiter) Release() {
	l.inFlight.Add(-1)
}
