package telemship

import (
	"math/rand"
	"sync"
	"time"
)

// backoff widens the trigger interval while the endpoint keeps answering
// with recoverable errors, with ±20% jitter, and snaps back to the base
// interval after a successful send. Safe for use from concurrent send
// goroutines.
type backoff struct {
	mu      sync.Mutex
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{
		initial: initial,
		max:     max,
		current: initial,
	}
}

// Interval returns the jittered wait before the next automatic trigger.
func (b *backoff) Interval() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	return time.Duration(float64(b.current) + jitter)
}

// Step widens the interval for the next trigger.
func (b *backoff) Step() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
}

// Reset snaps the interval back to its base value.
func (b *backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = b.initial
}

// Current returns the current un-jittered interval.
func (b *backoff) Current() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current
}
