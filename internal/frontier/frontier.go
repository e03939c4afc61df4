package frontier

import (
	"net/url"

	"github.com/linkinator-go/linkinator/pkg/urlutil"
)

// Frontier is the engine's single admission choke point: every
// discovered URL passes through Admit before it can become a
// dispatchable WorkItem. It owns both the FIFO work queue and the
// dedupe cache, mirroring the teacher's SubmitUrlForAdmission being
// the only path into its scheduler's frontier.
//
// Not safe for concurrent use without external synchronization — the
// engine is its single owner, per the spec's single-owner resource
// rule (§5).
type Frontier struct {
	queue *FIFOQueue[WorkItem]
	seen  Set[string]
}

// New returns an empty Frontier.
func New() *Frontier {
	return &Frontier{
		queue: NewFIFOQueue[WorkItem](),
		seen:  NewSet[string](),
	}
}

// Admit records raw as discovered by parent and enqueues it if its
// dedupe key has not been seen before. A second admission for an
// already-seen URL is discarded — the first parent observed always
// wins (spec §4.7) — and Admit reports false. inScope is the
// Normalizer's recursion-scope verdict for this URL (spec §4.2 step
// 5), carried onto the WorkItem so the dispatcher's recursion policy
// (internal/checker.shouldExtract) doesn't need to re-derive it.
func (f *Frontier) Admit(resolved url.URL, parent string, inScope bool) bool {
	return f.admit(resolved, parent, false, inScope)
}

// AdmitSeed is Admit for a URL taken directly from opts.Path(). Seeds
// are always extracted regardless of scope (spec §4.7), so inScope is
// unused for them but set true for consistency.
func (f *Frontier) AdmitSeed(resolved url.URL) bool {
	return f.admit(resolved, "", true, true)
}

func (f *Frontier) admit(resolved url.URL, parent string, isSeed, inScope bool) bool {
	key := urlutil.DedupeKey(resolved)
	if f.seen.Contains(key) {
		return false
	}
	f.seen.Add(key)
	f.queue.Enqueue(WorkItem{URL: resolved.String(), Parent: parent, IsSeed: isSeed, InScope: inScope})
	return true
}

// Requeue re-admits item directly onto the work queue without
// consulting the dedupe cache. It is how a URL coming due from the
// retry queue re-enters QUEUED (spec §4.7: SCHEDULED_RETRY -> QUEUED)
// — the URL is already in seen, and Admit would reject it as a
// duplicate.
func (f *Frontier) Requeue(item WorkItem) {
	f.queue.Enqueue(item)
}

// Claim registers resolved in the dedupe cache without enqueueing it,
// for a URL that finalizes immediately without ever being dispatched
// (an out-of-scheme or skip-matched link, spec §4.2-4.3). It reports
// false if resolved was already seen, preserving the "first parent
// observed wins, one LinkResult per URL" rule uniformly across both
// dispatched and immediately-finalized URLs.
func (f *Frontier) Claim(resolved url.URL) bool {
	key := urlutil.DedupeKey(resolved)
	if f.seen.Contains(key) {
		return false
	}
	f.seen.Add(key)
	return true
}

// Dequeue removes and returns the next QUEUED item.
func (f *Frontier) Dequeue() (WorkItem, bool) {
	return f.queue.Dequeue()
}

// Size reports the number of items currently QUEUED (not IN_FLIGHT).
func (f *Frontier) Size() int {
	return f.queue.Size()
}

// VisitedCount reports the total number of distinct URLs ever
// admitted, queued or not.
func (f *Frontier) VisitedCount() int {
	return f.seen.Size()
}
