// Package timeutil holds pure, dependency-free duration math used by
// the retry scheduler. There is no third-party backoff
// library in the retrieval pack that fits a non-blocking, caller-owns-
// the-clock scheduler, so this stays stdlib `time`/`math` the way the
// teacher's own pkg/timeutil did.
package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// DurationPtr returns a pointer to d, useful for optional-duration
// fields in config DTOs.
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}

// ExponentialBackoffDelay computes 2^attempt * 1000ms, plus a uniform
// random jitter in [0, jitter). attempt is 0-indexed: the delay before
// the first retry (attempt=0) is 1000ms.
//
// This is the retryErrorsJitter policy from spec §4.6: exponential
// backoff for 5xx/network failures, kept deliberately separate from
// the fixed-delay retryNoHeaderDelay policy used for header-less 429s.
func ExponentialBackoffDelay(attempt int, jitter time.Duration, rng *rand.Rand) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := time.Duration(math.Pow(2, float64(attempt)) * 1000) * time.Millisecond
	if jitter > 0 {
		delay += time.Duration(rng.Int63n(int64(jitter)))
	}
	return delay
}

// MaxDuration returns the largest value among ds, or 0 for an empty
// slice.
func MaxDuration(ds []time.Duration) time.Duration {
	var max time.Duration
	for _, d := range ds {
		if d > max {
			max = d
		}
	}
	return max
}
