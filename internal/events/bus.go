// Package events implements the observer surface exposed to callers:
// `link` and `retry` events, per spec §4.8 and §6 (`on(event, listener)`).
//
// Grounded on the teacher's single-recorder, single-path observability
// model (internal/metadata), generalized into a proper multi-listener
// bus since the spec requires callers to register arbitrary listeners
// before Check runs.
package events

import (
	"sync"

	"github.com/linkinator-go/linkinator/internal/linkmodel"
)

// Name identifies an event kind.
type Name string

const (
	Link  Name = "link"
	Retry Name = "retry"
)

// LinkListener observes a finalized LinkResult.
type LinkListener func(linkmodel.LinkResult)

// RetryListener observes a retry scheduling decision.
type RetryListener func(linkmodel.RetryInfo)

// Bus is a synchronous, multi-listener observer keyed by event name.
// Listeners run inline, in registration order, at emission time.
//
// Per spec §4.8, a listener that panics must not corrupt engine state:
// Bus isolates each listener call and continues to the next one.
type Bus struct {
	mu      sync.Mutex
	onLink  []LinkListener
	onRetry []RetryListener
}

func NewBus() *Bus {
	return &Bus{}
}

// OnLink registers a listener for `link` events.
func (b *Bus) OnLink(l LinkListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onLink = append(b.onLink, l)
}

// OnRetry registers a listener for `retry` events.
func (b *Bus) OnRetry(l RetryListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onRetry = append(b.onRetry, l)
}

// EmitLink fires every registered link listener, in order, isolating
// panics so one bad listener cannot abort the crawl.
func (b *Bus) EmitLink(result linkmodel.LinkResult) {
	b.mu.Lock()
	listeners := make([]LinkListener, len(b.onLink))
	copy(listeners, b.onLink)
	b.mu.Unlock()

	for _, l := range listeners {
		safeCallLink(l, result)
	}
}

// EmitRetry fires every registered retry listener, in order.
func (b *Bus) EmitRetry(info linkmodel.RetryInfo) {
	b.mu.Lock()
	listeners := make([]RetryListener, len(b.onRetry))
	copy(listeners, b.onRetry)
	b.mu.Unlock()

	for _, l := range listeners {
		safeCallRetry(l, info)
	}
}

func safeCallLink(l LinkListener, result linkmodel.LinkResult) {
	defer func() { _ = recover() }()
	l(result)
}

func safeCallRetry(l RetryListener, info linkmodel.RetryInfo) {
	defer func() { _ = recover() }()
	l(info)
}
