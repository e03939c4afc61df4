package retryqueue

import "time"

// Item is one pending retry (spec §4.6): a URL due to be re-dispatched
// no sooner than DueAt, carrying the attempt count already spent on it.
type Item struct {
	URL     string
	Parent  string
	DueAt   time.Time
	Attempt int
	InScope bool
}
