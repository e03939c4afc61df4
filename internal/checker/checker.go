// Package checker is the crawler engine: the orchestrator (spec §4.7,
// component 7) that owns the work queue, the concurrency-limited
// dispatcher, the dedupe cache, the recursion policy, and event
// emission.
//
// Grounded on the teacher's internal/scheduler.Scheduler — "the sole
// control-plane authority of the crawl", the single admission choke
// point, the sole authority on retry/continue/abort — but reshaped
// from the teacher's single-goroutine sequential for-loop into a
// bounded-fan-out dispatcher: the teacher has no concurrency at all
// (one page fetched at a time, via s.sleeper.Sleep between
// iterations), where this spec requires up to opts.Concurrency() fetches
// in flight simultaneously. The single-owner rule the teacher documents
// for its frontier is kept exactly: every WorkItem dispatched to a
// goroutine carries everything that goroutine needs to decide on its
// own (its shouldExtract flag, computed up front); the goroutine never
// touches the frontier, the retry queue, or the dedupe cache directly,
// and reports its outcome back over a channel that only the engine's
// single run loop reads.
package checker

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/linkinator-go/linkinator/internal/config"
	"github.com/linkinator-go/linkinator/internal/events"
	"github.com/linkinator-go/linkinator/internal/extractor"
	"github.com/linkinator-go/linkinator/internal/fetcher"
	"github.com/linkinator-go/linkinator/internal/frontier"
	"github.com/linkinator-go/linkinator/internal/linkmodel"
	"github.com/linkinator-go/linkinator/internal/normalize"
	"github.com/linkinator-go/linkinator/internal/observe"
	"github.com/linkinator-go/linkinator/internal/retryqueue"
	"github.com/linkinator-go/linkinator/internal/server"
	"github.com/linkinator-go/linkinator/internal/skipmatcher"
	"github.com/linkinator-go/linkinator/pkg/fileutil"
	"github.com/linkinator-go/linkinator/pkg/urlutil"
)

// LinkChecker is the programmatic entry point (spec §6): construct,
// register listeners with OnLink/OnRetry, then Check. Listeners must
// be registered before Check is called — the event bus is not
// concurrently mutated during a crawl (spec §5).
type LinkChecker struct {
	bus *events.Bus
}

// NewLinkChecker returns an idle engine handle with no listeners
// registered.
func NewLinkChecker() *LinkChecker {
	return &LinkChecker{bus: events.NewBus()}
}

// OnLink registers l to observe every finalized LinkResult.
func (c *LinkChecker) OnLink(l events.LinkListener) { c.bus.OnLink(l) }

// OnRetry registers l to observe every retry scheduling decision.
func (c *LinkChecker) OnRetry(l events.RetryListener) { c.bus.OnRetry(l) }

// Check runs one crawl to completion against opts and returns the
// aggregate result. All state created for this call (dedupe cache,
// queues, static server) lives exactly as long as this call (spec §3).
func (c *LinkChecker) Check(ctx context.Context, opts config.Options) (linkmodel.CrawlResult, error) {
	return runEngine(ctx, opts, c.bus)
}

// Check is the single-shot helper, equivalent to constructing a
// LinkChecker with no listeners and awaiting Check.
func Check(ctx context.Context, opts config.Options) (linkmodel.CrawlResult, error) {
	return NewLinkChecker().Check(ctx, opts)
}

// engine holds every piece of per-invocation state. It is single-owner:
// only the run loop goroutine ever mutates fr, retryQ, scopeOrigin, or
// results. Goroutines spawned for in-flight work (process) receive
// only the immutable inputs they need and report back over a channel.
type engine struct {
	opts config.Options
	bus  *events.Bus

	fr     *frontier.Frontier
	retryQ *retryqueue.Queue
	fetch  *fetcher.Fetcher
	norm   *normalize.Normalizer
	skip   *skipmatcher.Matcher
	rec    *observe.Recorder
	sem    *semaphore.Weighted

	rngMu sync.Mutex
	rng   *rand.Rand

	// scopeOrigin maps a URL's dedupe key to the origin its own
	// children must match to be considered in-scope for recursion
	// (spec §4.2 step 5). Populated when a URL is admitted; read back
	// when that same URL is dispatched or when its children are
	// admitted.
	scopeOrigin map[string]string

	results []linkmodel.LinkResult
}

func runEngine(ctx context.Context, opts config.Options, bus *events.Bus) (linkmodel.CrawlResult, error) {
	plan, err := planSeeds(opts.Path(), opts.ServerRoot())
	if err != nil {
		return linkmodel.CrawlResult{}, err
	}

	var srv *server.Server
	if plan.fsRoot != "" {
		s, startErr := server.Start(plan.fsRoot, opts.DirectoryListing())
		if startErr != nil {
			return linkmodel.CrawlResult{}, fmt.Errorf("%w: %v", ErrServerBindFailed, startErr)
		}
		srv = s
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	e := &engine{
		opts:        opts,
		bus:         bus,
		fr:          frontier.New(),
		retryQ:      retryqueue.New(),
		fetch:       fetcher.New(),
		norm:        normalize.New(opts.URLRewriteExpressions()),
		skip:        skipmatcher.New(opts),
		rec:         observe.NewRecorder(),
		sem:         semaphore.NewWeighted(int64(opts.Concurrency())),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		scopeOrigin: make(map[string]string),
	}

	e.seedFrontier(plan, srv)
	e.run(ctx)

	return linkmodel.CrawlResult{
		Passed: linkmodel.ComputePassed(e.results),
		Links:  e.results,
	}, nil
}

// seedFrontier admits every seed (spec §4: "seed work queue from
// path"). Filesystem seeds are rewritten onto the static server's
// origin first (spec §4.5) so they are crawled as ordinary HTTP URLs.
func (e *engine) seedFrontier(plan seedPlan, srv *server.Server) {
	seeds := append([]string(nil), plan.urlSeeds...)
	if srv != nil {
		for _, abs := range plan.fsSeeds {
			su, err := seedURLFor(srv.Origin(), plan.fsRoot, abs)
			if err != nil {
				continue
			}
			seeds = append(seeds, su)
		}
	}

	for _, raw := range seeds {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if e.fr.AdmitSeed(*u) {
			e.scopeOrigin[urlutil.DedupeKey(*u)] = urlutil.Origin(*u)
		}
	}
}

// run is the dispatcher's main loop (spec §4.7, §5). It alternates
// between admitting due retries, launching as much queued work as the
// concurrency semaphore allows, and waiting for the next thing to
// happen: an in-flight outcome, a retry becoming due, or cancellation.
func (e *engine) run(ctx context.Context) {
	outcomes := make(chan outcome)
	inFlight := 0

	for {
		if ctx.Err() == nil {
			e.admitDueRetries()
			inFlight += e.dispatchReady(ctx, outcomes)
		}

		if inFlight == 0 && (ctx.Err() != nil || (e.fr.Size() == 0 && e.retryQ.Size() == 0)) {
			return
		}

		select {
		case out := <-outcomes:
			inFlight--
			e.handleOutcome(out)
		case <-e.nextWait(inFlight):
		case <-ctx.Done():
		}
	}
}

// nextWait returns a channel that fires once the retry queue's
// earliest pending item becomes due, or nil (never fires) when there
// is in-flight work to wait on instead, or nothing pending at all.
func (e *engine) nextWait(inFlight int) <-chan time.Time {
	if inFlight > 0 {
		return nil
	}
	next, ok := e.retryQ.NextDueAt()
	if !ok {
		return nil
	}
	d := time.Until(next)
	if d < 0 {
		d = 0
	}
	return time.After(d)
}

// admitDueRetries moves every retry whose delay has elapsed back onto
// the work queue (spec §4.6: SCHEDULED_RETRY -> QUEUED).
func (e *engine) admitDueRetries() {
	for _, item := range e.retryQ.Due(time.Now()) {
		e.fr.Requeue(frontier.WorkItem{URL: item.URL, Parent: item.Parent, Attempt: item.Attempt, InScope: item.InScope})
	}
}

// dispatchReady launches a goroutine for every queued item the
// semaphore currently has capacity for, and returns how many it
// launched. shouldExtract is decided here, on the single-owner run
// loop, before the goroutine starts — never inside it — since it
// depends on scopeOrigin.
func (e *engine) dispatchReady(ctx context.Context, outcomes chan outcome) int {
	launched := 0
	for e.fr.Size() > 0 {
		if !e.sem.TryAcquire(1) {
			break
		}
		item, ok := e.fr.Dequeue()
		if !ok {
			e.sem.Release(1)
			break
		}

		shouldExtract := e.shouldExtract(item)
		launched++
		go func(item frontier.WorkItem, shouldExtract bool) {
			defer e.sem.Release(1)
			outcomes <- e.process(ctx, item, shouldExtract)
		}(item, shouldExtract)
	}
	return launched
}

// shouldExtract implements the recursion policy (spec §4.7): seeds are
// always extracted; anything else only when recursion is enabled and
// the URL's origin matched the scope it was discovered under. That
// scope match was already decided once by the Normalizer at admission
// time (spec §4.2 step 5) and carried on the item as InScope.
func (e *engine) shouldExtract(item frontier.WorkItem) bool {
	if item.IsSeed {
		return true
	}
	return e.opts.Recurse() && item.InScope
}

// handleOutcome applies one outcome to engine state. Like every other
// mutation of results, the retry queue, and the dedupe cache, it runs
// on the run-loop goroutine.
func (e *engine) handleOutcome(out outcome) {
	if !out.finalized {
		e.retryQ.Schedule(out.retryItem)
		e.bus.EmitRetry(out.retryInfo)
		return
	}

	e.results = append(e.results, out.result)
	e.bus.EmitLink(out.result)

	if len(out.discovered) == 0 {
		return
	}

	u, err := url.Parse(out.item.URL)
	if err != nil {
		return
	}
	scope, ok := e.scopeOrigin[urlutil.DedupeKey(*u)]
	if !ok {
		scope = urlutil.Origin(*u)
	}
	for _, d := range out.discovered {
		e.admitDiscovered(d, scope)
	}
}

// admitDiscovered classifies one raw discovered URL string (spec §4.2,
// §4.3) and either finalizes it immediately (out-of-scheme or
// skip-matched) or enqueues it for dispatch, propagating the scope
// origin its own children will be checked against.
func (e *engine) admitDiscovered(d discoveredLink, scope string) {
	parentURL, err := url.Parse(d.parent)
	if err != nil {
		return
	}

	cls, err := e.norm.Resolve(d.raw, parentURL, scope)
	if err != nil {
		return
	}

	if cls.Scheme == urlutil.SchemeOther {
		e.finalizeSkipped(cls.Resolved, d.parent)
		return
	}

	if e.skip.Match(cls.Resolved) {
		e.finalizeSkipped(cls.Resolved, d.parent)
		return
	}

	resolvedURL, err := url.Parse(cls.Resolved)
	if err != nil {
		return
	}

	if e.fr.Admit(*resolvedURL, d.parent, cls.InScope) {
		e.scopeOrigin[urlutil.DedupeKey(*resolvedURL)] = scope
	}
}

// finalizeSkipped records a SKIPPED LinkResult for a URL that will
// never be dispatched, respecting the same dedupe/first-parent-wins
// rule as dispatched URLs.
func (e *engine) finalizeSkipped(resolved, parent string) {
	u, err := url.Parse(resolved)
	if err != nil {
		return
	}
	if !e.fr.Claim(*u) {
		return
	}
	result := linkmodel.NewLinkResult(resolved, 0, linkmodel.StateSkipped, parent, nil)
	e.results = append(e.results, result)
	e.bus.EmitLink(result)
}

// process performs one dispatch attempt for item and returns its
// outcome. It touches no engine-owned mutable state: every input it
// needs (shouldExtract) was computed by the run loop before the
// goroutine started, and its result only reaches the engine over the
// outcomes channel.
func (e *engine) process(ctx context.Context, item frontier.WorkItem, shouldExtract bool) outcome {
	u, err := url.Parse(item.URL)
	if err != nil {
		return outcome{
			item:      item,
			finalized: true,
			result: linkmodel.NewLinkResult(item.URL, 0, linkmodel.StateBroken, item.Parent,
				[]linkmodel.AttemptDetail{{Message: err.Error()}}),
		}
	}

	if urlutil.ClassifyScheme(u.Scheme) == urlutil.SchemeFile {
		return e.processFile(item, u, shouldExtract)
	}
	return e.processHTTP(ctx, item, shouldExtract)
}

// processFile resolves a file:// URL against the on-disk layout (spec
// §4.4): OK if the path exists (honoring directoryListing for
// directories), else BROKEN with synthetic status 404. There is no
// retry policy for this path — a missing file is immediately terminal.
func (e *engine) processFile(item frontier.WorkItem, u *url.URL, shouldExtract bool) outcome {
	res, ferr := fetcher.AttemptFile(item.URL, e.opts.DirectoryListing())
	if ferr != nil {
		fe, _ := ferr.(*fetcher.Error)
		return outcome{
			item:      item,
			finalized: true,
			result: linkmodel.NewLinkResult(item.URL, fe.Status, linkmodel.StateBroken, item.Parent,
				[]linkmodel.AttemptDetail{{Status: fe.Status, Message: fe.Error()}}),
		}
	}

	var discovered []discoveredLink
	isDir, _ := fileutil.Stat(u.Path)
	if shouldExtract && !isDir {
		if ct, ok := extractionKind(item.URL, nil, e.opts.Markdown()); ok {
			if f, openErr := os.Open(u.Path); openErr == nil {
				_ = extractor.Extract(f, ct, func(raw string) {
					discovered = append(discovered, discoveredLink{raw: raw, parent: item.URL})
				})
				f.Close()
			}
		}
	}

	return outcome{
		item:       item,
		finalized:  true,
		result:     linkmodel.NewLinkResult(item.URL, res.StatusCode, linkmodel.StateOK, item.Parent, nil),
		discovered: discovered,
	}
}

// processHTTP performs one HTTP fetch attempt (spec §4.4) and applies
// the two retry policies (spec §4.6) to a 429 or 5xx/network failure,
// or finalizes the URL OK/BROKEN.
func (e *engine) processHTTP(ctx context.Context, item frontier.WorkItem, shouldExtract bool) outcome {
	var discovered []discoveredLink

	onBody := func(headers map[string]string, body io.Reader) error {
		ct, ok := extractionKind(item.URL, headers, e.opts.Markdown())
		if !ok {
			return nil
		}
		return extractor.Extract(body, ct, func(raw string) {
			discovered = append(discovered, discoveredLink{raw: raw, parent: item.URL})
		})
	}

	req := fetcher.Request{
		URL:           item.URL,
		ExtraHeaders:  e.opts.ExtraHeaders(),
		UserAgent:     e.opts.UserAgent(),
		Timeout:       e.opts.Timeout(),
		ShouldExtract: shouldExtract,
		OnBody:        onBody,
	}

	start := time.Now()
	res, ferr := e.fetch.Attempt(ctx, req)
	duration := time.Since(start)

	if ferr == nil {
		e.rec.RecordFetch(observe.FetchRecord{
			URL: item.URL, Method: res.Method, Status: res.StatusCode,
			Duration: duration, RetryCount: item.Attempt,
		})
		return outcome{
			item:       item,
			finalized:  true,
			result:     linkmodel.NewLinkResult(item.URL, res.StatusCode, linkmodel.StateOK, item.Parent, nil),
			discovered: discovered,
		}
	}

	fe, ok := ferr.(*fetcher.Error)
	if !ok {
		return outcome{
			item:      item,
			finalized: true,
			result: linkmodel.NewLinkResult(item.URL, 0, linkmodel.StateBroken, item.Parent,
				[]linkmodel.AttemptDetail{{Message: ferr.Error()}}),
		}
	}

	if fe.Cause == fetcher.CauseReadBody {
		// Parser/read failures never abort the crawl (spec §7
		// category 4): the HTTP status already obtained is the source
		// of truth, so the document still finalizes OK.
		e.rec.RecordError(observe.ErrorRecord{
			ObservedAt: time.Now(), Package: "checker", Action: "extract",
			Cause: observe.CauseParse, Message: fe.Error(), URL: item.URL,
		})
		return outcome{
			item:       item,
			finalized:  true,
			result:     linkmodel.NewLinkResult(item.URL, fe.Status, linkmodel.StateOK, item.Parent, nil),
			discovered: discovered,
		}
	}

	detail := linkmodel.AttemptDetail{Status: fe.Status, Headers: fe.Headers, Message: fe.Error()}

	if fe.Cause == fetcher.CauseTooManyRequests {
		return e.handleTooManyRequests(item, fe, detail)
	}

	if fe.Retryable && e.opts.RetryErrors() && item.Attempt < e.opts.RetryErrorsCount() {
		due, delay := e.dueAtForErrorBackoff(item.Attempt)
		return outcome{
			item:      item,
			finalized: false,
			retryItem: retryqueue.Item{URL: item.URL, Parent: item.Parent, DueAt: due, Attempt: item.Attempt + 1, InScope: item.InScope},
			retryInfo: linkmodel.RetryInfo{URL: item.URL, SecondsUntilRetry: delay.Seconds(), Status: fe.Status},
		}
	}

	return outcome{
		item:      item,
		finalized: true,
		result:    linkmodel.NewLinkResult(item.URL, fe.Status, linkmodel.StateBroken, item.Parent, []linkmodel.AttemptDetail{detail}),
	}
}

// handleTooManyRequests applies the two independent 429 retry policies
// (spec §4.6, §9: "two retry policies are separate by design").
func (e *engine) handleTooManyRequests(item frontier.WorkItem, fe *fetcher.Error, detail linkmodel.AttemptDetail) outcome {
	due, delay, hasHeader := retryqueue.DueAtForHeader(time.Now(), fe.Headers["Retry-After"])

	if hasHeader && e.opts.Retry() {
		return outcome{
			item:      item,
			finalized: false,
			retryItem: retryqueue.Item{URL: item.URL, Parent: item.Parent, DueAt: due, Attempt: item.Attempt + 1, InScope: item.InScope},
			retryInfo: linkmodel.RetryInfo{URL: item.URL, SecondsUntilRetry: delay.Seconds(), Status: fe.Status},
		}
	}

	if !hasHeader && e.opts.RetryNoHeader() &&
		(e.opts.RetryNoHeaderCount() < 0 || item.Attempt < e.opts.RetryNoHeaderCount()) {
		noHeaderDue, noHeaderDelay := retryqueue.DueAtForNoHeaderBackoff(time.Now(), e.opts.RetryNoHeaderDelay())
		return outcome{
			item:      item,
			finalized: false,
			retryItem: retryqueue.Item{URL: item.URL, Parent: item.Parent, DueAt: noHeaderDue, Attempt: item.Attempt + 1, InScope: item.InScope},
			retryInfo: linkmodel.RetryInfo{URL: item.URL, SecondsUntilRetry: noHeaderDelay.Seconds(), Status: fe.Status},
		}
	}

	return outcome{
		item:      item,
		finalized: true,
		result:    linkmodel.NewLinkResult(item.URL, fe.Status, linkmodel.StateBroken, item.Parent, []linkmodel.AttemptDetail{detail}),
	}
}

// dueAtForErrorBackoff guards retryqueue.DueAtForErrorBackoff's shared
// *rand.Rand with a mutex: process may run this from many concurrent
// goroutines, and math/rand.Rand is not safe for concurrent use.
func (e *engine) dueAtForErrorBackoff(attempt int) (time.Time, time.Duration) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return retryqueue.DueAtForErrorBackoff(time.Now(), attempt, e.opts.RetryErrorsJitter(), e.rng)
}
