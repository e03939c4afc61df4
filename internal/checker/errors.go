package checker

import "errors"

// Sentinel fatal errors (spec §7 category 6): these abort Check before
// it returns a CrawlResult at all, unlike a per-link failure which is
// always folded into a BROKEN LinkResult.
var (
	ErrSeedNotFound  = errors.New("checker: seed path does not exist")
	ErrServerBindFailed = errors.New("checker: static file server failed to bind")
)
