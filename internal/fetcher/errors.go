package fetcher

import (
	"fmt"

	"github.com/linkinator-go/linkinator/pkg/failure"
)

// Cause enumerates why a fetch did not finalize OK. Retryability is a
// property of the cause, not of the individual error: the engine
// consults opts.Retry()/opts.RetryErrors() alongside this to decide
// whether to schedule a retry or finalize BROKEN (spec §4.4 step 4-5).
type Cause string

const (
	CauseNetworkFailure Cause = "network failure"
	CauseTimeout        Cause = "timeout"
	CauseTooManyRequests Cause = "too many requests"
	CauseServerError    Cause = "server error"
	CauseClientError    Cause = "client error"
	CauseReadBody       Cause = "failed to read response body"
	CauseNotFound       Cause = "not found"
)

// Error is the classified outcome of one fetch attempt.
type Error struct {
	Cause      Cause
	Status     int
	Headers    map[string]string
	Retryable  bool
	wrapped    error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("fetch failed (%s): %v", e.Cause, e.wrapped)
	}
	return fmt.Sprintf("fetch failed (%s): status %d", e.Cause, e.Status)
}

func (e *Error) Unwrap() error { return e.wrapped }

// Severity is always SeverityRecoverable: every fetch failure, retryable
// or not, is absorbed by the engine into a LinkResult.
func (e *Error) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
