package observe

import "time"

// FetchRecord captures one fetch attempt for observability.
// Allowed fields, per the teacher's metadata package convention:
// primitives, timestamps, URLs-as-values, status codes, durations.
type FetchRecord struct {
	URL        string
	Method     string
	Status     int
	Duration   time.Duration
	RetryCount int
}

// ErrorCause is a closed, canonical classification used exclusively
// for observability (logging, metrics). It must never drive
// scheduling, retry, or abort decisions — those stay with
// failure.ClassifiedError and the engine's own state machine.
type ErrorCause int

const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseHTTPStatus
	CauseSkipPredicate
	CauseParse
)

// ErrorRecord is one observed, non-fatal failure.
type ErrorRecord struct {
	ObservedAt time.Time
	Package    string
	Action     string
	Cause      ErrorCause
	Message    string
	URL        string
}
