package retryqueue

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/linkinator-go/linkinator/pkg/timeutil"
)

// ParseRetryAfter resolves a Retry-After header value to a duration.
// It accepts the numeric-seconds form the spec names directly, and
// additionally accepts an HTTP-date form (net/http's own client does
// the same via http.ParseTime), since real servers send both. An
// unparseable value is treated as absent.
func ParseRetryAfter(header string) (time.Duration, bool) {
	if header == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(header); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

// DueAtForHeader computes dueAt for a 429 carrying a Retry-After
// header (spec §4.6: dueAt = now + max(1s, parsed)). The returned
// delay is the exact value dueAt was derived from, so a caller
// emitting a retry event reports that value directly rather than
// re-deriving it from the wall clock (spec §8: "secondsUntilRetry = N").
func DueAtForHeader(now time.Time, header string) (dueAt time.Time, delay time.Duration, ok bool) {
	d, ok := ParseRetryAfter(header)
	if !ok {
		return time.Time{}, 0, false
	}
	if d < time.Second {
		d = time.Second
	}
	return now.Add(d), d, true
}

// DueAtForNoHeaderBackoff computes dueAt for a 429 without a usable
// Retry-After header, using the fixed no-header retry delay.
func DueAtForNoHeaderBackoff(now time.Time, delay time.Duration) (time.Time, time.Duration) {
	return now.Add(delay), delay
}

// DueAtForErrorBackoff computes dueAt for a 5xx/network-error retry,
// using the exponential-backoff-plus-jitter policy (spec §4.4 step 5).
// attempt is 0-indexed: the first retry uses attempt 0.
func DueAtForErrorBackoff(now time.Time, attempt int, jitter time.Duration, rng *rand.Rand) (time.Time, time.Duration) {
	d := timeutil.ExponentialBackoffDelay(attempt, jitter, rng)
	return now.Add(d), d
}
