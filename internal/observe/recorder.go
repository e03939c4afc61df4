// Package observe is this project's structured-logging surface,
// grounded on the teacher's internal/metadata package: a recorder fed
// by the crawler engine, read by nothing in the control path.
//
// Metadata emission is observational only and MUST NOT influence
// scheduling, retries, or crawl termination — the same invariant the
// teacher's scheduler.go documents for its own Recorder.
package observe

import "sync"

// Sink is the write side every component depends on.
type Sink interface {
	RecordFetch(FetchRecord)
	RecordError(ErrorRecord)
}

// Recorder is an in-process, concurrency-safe Sink. One Recorder lives
// exactly as long as a single Check call, matching the "all state is
// per-invocation" lifecycle rule in spec §3.
type Recorder struct {
	mu     sync.Mutex
	fetch  []FetchRecord
	errors []ErrorRecord
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordFetch(rec FetchRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetch = append(r.fetch, rec)
}

func (r *Recorder) RecordError(rec ErrorRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, rec)
}

// Fetches returns a copy of every fetch recorded so far.
func (r *Recorder) Fetches() []FetchRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FetchRecord, len(r.fetch))
	copy(out, r.fetch)
	return out
}

// Errors returns a copy of every error recorded so far.
func (r *Recorder) Errors() []ErrorRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ErrorRecord, len(r.errors))
	copy(out, r.errors)
	return out
}

// noopSink discards everything; used where a Sink is required but the
// caller (e.g. a unit test) doesn't care about observability.
type noopSink struct{}

func NewNoopSink() Sink           { return noopSink{} }
func (noopSink) RecordFetch(FetchRecord)  {}
func (noopSink) RecordError(ErrorRecord) {}
