package checker

import (
	"github.com/linkinator-go/linkinator/internal/frontier"
	"github.com/linkinator-go/linkinator/internal/linkmodel"
	"github.com/linkinator-go/linkinator/internal/retryqueue"
)

// outcome is what dispatching a single WorkItem produced, reported
// back to the engine's main loop over a channel so that state
// mutation (the dedupe cache, the retry queue, in-flight bookkeeping)
// stays single-owner (spec §5).
type outcome struct {
	item frontier.WorkItem

	// finalized is true when item reached a terminal state (OK or
	// BROKEN) and result/discovered are populated. false means a retry
	// was scheduled instead and retryItem/retryInfo are populated.
	finalized bool

	result     linkmodel.LinkResult
	discovered []discoveredLink

	retryItem retryqueue.Item
	retryInfo linkmodel.RetryInfo
}

// discoveredLink is a raw, not-yet-classified URL string found while
// processing an item, paired with the parent used to attribute it.
type discoveredLink struct {
	raw    string
	parent string
}
