package translator

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy controls per-chunk retry behavior. It is an explicit value
// rather than hardcoded loops so tests can inject zero-jitter, millisecond
// policies and get deterministic timing.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries per request, including the
	// first one. Values below 1 are treated as 1.
	MaxAttempts int
	// BaseDelay is the delay before the first retry; subsequent delays
	// double up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// Jitter is the randomization factor applied to each delay, in
	// [0, 1]. Zero makes backoff deterministic.
	Jitter float64
}

// DefaultRetryPolicy mirrors the backoff the free translate endpoint
// tolerates in practice: 5 attempts, 2s..60s delays, half-width jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
		MaxDelay:    60 * time.Second,
		Jitter:      0.5,
	}
}

// backOff builds the context-aware backoff for one chunk request. The
// context aborts both retry sleeps and the attempts themselves.
func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.MaxInterval = p.MaxDelay
	b.RandomizationFactor = p.Jitter
	b.Multiplier = 2
	b.MaxElapsedTime = 0

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}
