package config

import (
	"time"

	"github.com/linkinator-go/linkinator/internal/linkmodel"
)

// SkipPredicate is the function form of CheckOptions.linksToSkip
// (spec §3, §4.3). An error from the predicate marks the link
// SKIPPED, never BROKEN.
type SkipPredicate func(url string) (bool, error)

// Options is the validated, defaulted CheckOptions record (spec §3).
// Kept as a private-struct-plus-accessors value type, per the
// teacher's internal/config.Config convention, so a Check call always
// receives an immutable, already-validated snapshot.
type Options struct {
	path []string

	concurrency int
	timeout     time.Duration

	recurse          bool
	markdown         bool
	directoryListing bool
	serverRoot       string

	linksToSkip   []string
	skipPredicate SkipPredicate

	retry bool

	retryNoHeader      bool
	retryNoHeaderCount int
	retryNoHeaderDelay time.Duration

	retryErrors       bool
	retryErrorsCount  int
	retryErrorsJitter time.Duration

	extraHeaders map[string]string
	userAgent    string

	urlRewriteExpressions []linkmodel.UrlRewriteRule
}

func (o Options) Path() []string { return append([]string(nil), o.path...) }
func (o Options) Concurrency() int { return o.concurrency }
func (o Options) Timeout() time.Duration { return o.timeout }
func (o Options) Recurse() bool { return o.recurse }
func (o Options) Markdown() bool { return o.markdown }
func (o Options) DirectoryListing() bool { return o.directoryListing }
func (o Options) ServerRoot() string { return o.serverRoot }
func (o Options) LinksToSkip() []string { return append([]string(nil), o.linksToSkip...) }
func (o Options) SkipPredicate() SkipPredicate { return o.skipPredicate }
func (o Options) Retry() bool { return o.retry }
func (o Options) RetryNoHeader() bool { return o.retryNoHeader }
func (o Options) RetryNoHeaderCount() int { return o.retryNoHeaderCount }
func (o Options) RetryNoHeaderDelay() time.Duration { return o.retryNoHeaderDelay }
func (o Options) RetryErrors() bool { return o.retryErrors }
func (o Options) RetryErrorsCount() int { return o.retryErrorsCount }
func (o Options) RetryErrorsJitter() time.Duration { return o.retryErrorsJitter }
func (o Options) UserAgent() string { return o.userAgent }
func (o Options) URLRewriteExpressions() []linkmodel.UrlRewriteRule {
	return append([]linkmodel.UrlRewriteRule(nil), o.urlRewriteExpressions...)
}

func (o Options) ExtraHeaders() map[string]string {
	out := make(map[string]string, len(o.extraHeaders))
	for k, v := range o.extraHeaders {
		out[k] = v
	}
	return out
}
