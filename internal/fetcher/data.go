package fetcher

import (
	"io"
	"time"
)

// Request is the boundary value for one fetch attempt (spec §4.4).
type Request struct {
	URL          string
	Method       string // "" lets Attempt choose HEAD-then-GET
	ExtraHeaders map[string]string
	UserAgent    string
	Timeout      time.Duration

	// ShouldExtract is true when the engine's recursion policy admits
	// this URL's body to the Link Extractor (spec §4.7: in-scope seed
	// or recursing origin match). When false, only headers are read.
	ShouldExtract bool

	// OnBody, when non-nil and ShouldExtract is true, is invoked with
	// the final response's headers and its live body reader before the
	// body is closed — the body is never buffered by the fetcher
	// itself. The caller decides, from the headers and the request URL,
	// whether the body is actually HTML/Markdown worth extracting from;
	// the fetcher does not gate on content-type itself.
	OnBody func(headers map[string]string, body io.Reader) error
}

// Result is the successful outcome of one fetch attempt.
type Result struct {
	StatusCode int
	Method     string // the method that produced the final response
	Headers    map[string]string
	Duration   time.Duration
}
