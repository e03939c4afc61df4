package normalize

import "github.com/linkinator-go/linkinator/pkg/urlutil"

// Classification is the outcome of resolving and classifying a raw
// discovered URL string against its parent (spec §4.2).
type Classification struct {
	// Resolved is the absolute, fragment-stripped URL after rewrite
	// rules and RFC 3986 resolution against the parent.
	Resolved string
	// Scheme buckets the resolved URL for fetchability.
	Scheme urlutil.Scheme
	// InScope is true iff Resolved's origin equals the seed origin
	// this document was crawled against (spec §4.2 step 5).
	InScope bool
}
