package realtime

import (
	"math/rand/v2"
	"time"
)

const (
	defaultInitialDelay = time.Second
	defaultMaxDelay     = 30 * time.Second
	defaultJitter       = 0.3
)

// Backoff computes exponential reconnect delays with additive jitter.
// The delay for attempt n is min(Initial*2^n, Max) plus a uniform random
// amount in [0, Jitter*base).
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Jitter  float64

	rand func() float64
}

func NewBackoff(initial, maxDelay time.Duration) Backoff {
	if initial <= 0 {
		initial = defaultInitialDelay
	}
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}
	if maxDelay < initial {
		maxDelay = initial
	}
	return Backoff{
		Initial: initial,
		Max:     maxDelay,
		Jitter:  defaultJitter,
	}
}

// Base returns the jitter-free delay for the given attempt.
func (b Backoff) Base(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := b.Initial
	for i := 0; i < attempt; i++ {
		// stop doubling once capped, also keeps d from overflowing
		if d >= b.Max {
			break
		}
		d *= 2
	}
	if d > b.Max {
		d = b.Max
	}
	return d
}

func (b Backoff) Delay(attempt int) time.Duration {
	base := b.Base(attempt)
	if b.Jitter <= 0 {
		return base
	}
	rnd := b.rand
	if rnd == nil {
		rnd = rand.Float64
	}
	return base + time.Duration(rnd()*b.Jitter*float64(base))
}
