// Package normalize resolves a raw discovered URL string against its
// parent, applies rewrite rules, and classifies scheme and recursion
// scope (spec §4.2, component 2).
//
// Grounded on the teacher's pkg/urlutil.Canonicalize/Resolve/FilterByHost
// trio, generalized from "same host" to the spec's origin
// (scheme+host+port) comparison and extended with the rewrite-rule and
// scheme-classification steps the teacher never needed (it only ever
// crawled http(s) on one host).
package normalize

import (
	"net/url"
	"regexp"

	"github.com/linkinator-go/linkinator/internal/linkmodel"
	"github.com/linkinator-go/linkinator/pkg/urlutil"
)

// Normalizer applies CheckOptions.urlRewriteExpressions and resolves
// against a parent URL.
type Normalizer struct {
	rules []compiledRule
}

type compiledRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// New compiles rewrite rules in order. A rule with an invalid regex is
// skipped rather than failing the whole run.
func New(rules []linkmodel.UrlRewriteRule) *Normalizer {
	n := &Normalizer{}
	for _, r := range rules {
		if re, err := regexp.Compile(r.Pattern); err == nil {
			n.rules = append(n.rules, compiledRule{pattern: re, replacement: r.Replacement})
		}
	}
	return n
}

// Rewrite applies every rule, in order, to raw.
func (n *Normalizer) Rewrite(raw string) string {
	for _, r := range n.rules {
		raw = r.pattern.ReplaceAllString(raw, r.replacement)
	}
	return raw
}

// Resolve implements spec §4.2 steps 1-5: rewrite, resolve against
// parent, strip the fragment, classify scheme, and test whether the
// result is in-scope for recursion relative to seedOrigin.
//
// A fragment-only link (e.g. "#section") against parent inherits
// parent's origin, so it is in-scope exactly when parent's origin
// equals seedOrigin.
func (n *Normalizer) Resolve(raw string, parent *url.URL, seedOrigin string) (Classification, error) {
	rewritten := n.Rewrite(raw)

	ref, err := url.Parse(rewritten)
	if err != nil {
		return Classification{}, err
	}

	resolvedURL := parent.ResolveReference(ref)
	stripped := urlutil.StripFragment(*resolvedURL)
	resolved := &stripped

	scheme := urlutil.ClassifyScheme(resolved.Scheme)
	origin := urlutil.Origin(*resolved)

	return Classification{
		Resolved: resolved.String(),
		Scheme:   scheme,
		InScope:  origin == seedOrigin,
	}, nil
}
