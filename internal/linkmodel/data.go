// Package linkmodel holds the result types the crawler engine emits.
// Grounded on the teacher's data.go-per-package convention
// (internal/fetcher/data.go, internal/frontier/data.go): private
// fields behind constructors and accessors, values copied into the
// result vector rather than referenced, per spec §9's "no cyclic
// ownership" note.
package linkmodel

// State is the terminal classification of a LinkResult, per spec §3.
type State string

const (
	StateOK      State = "OK"
	StateBroken  State = "BROKEN"
	StateSkipped State = "SKIPPED"
)

// AttemptDetail is one per-attempt diagnostic appended to a broken
// link's FailureDetails. Retry attempts append; they never replace.
type AttemptDetail struct {
	Status      int
	Headers     map[string]string
	BodyExcerpt string
	Message     string
}

// LinkResult is the record produced for every URL visited.
type LinkResult struct {
	url            string
	status         int
	state          State
	parent         string
	failureDetails []AttemptDetail
}

// NewLinkResult builds a LinkResult. failureDetails may be nil.
func NewLinkResult(url string, status int, state State, parent string, failureDetails []AttemptDetail) LinkResult {
	return LinkResult{
		url:            url,
		status:         status,
		state:          state,
		parent:         parent,
		failureDetails: failureDetails,
	}
}

func (l LinkResult) URL() string                      { return l.url }
func (l LinkResult) Status() int                      { return l.status }
func (l LinkResult) State() State                     { return l.state }
func (l LinkResult) Parent() string                   { return l.parent }
func (l LinkResult) FailureDetails() []AttemptDetail  { return l.failureDetails }
func (l LinkResult) AppendFailureDetail(d AttemptDetail) LinkResult {
	next := make([]AttemptDetail, 0, len(l.failureDetails)+1)
	next = append(next, l.failureDetails...)
	next = append(next, d)
	l.failureDetails = next
	return l
}

// CrawlResult is the aggregate returned by Check.
type CrawlResult struct {
	Passed bool
	Links  []LinkResult
}

// ComputePassed derives Passed from links: true iff no link is BROKEN.
// Kept as a free function (spec §3: "passed is a pure function of the
// final links vector") so engine and tests share one definition.
func ComputePassed(links []LinkResult) bool {
	for _, l := range links {
		if l.State() == StateBroken {
			return false
		}
	}
	return true
}

// RetryInfo is emitted as a `retry` event (spec §3).
type RetryInfo struct {
	URL                string
	SecondsUntilRetry   float64
	Status             int
}

// UrlRewriteRule is a {pattern, replacement} pair applied, in order,
// to every discovered URL string before classification (spec §4.2
// step 1).
type UrlRewriteRule struct {
	Pattern     string
	Replacement string
}
