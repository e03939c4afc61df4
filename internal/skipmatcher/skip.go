// Package skipmatcher decides whether a discovered URL is skipped
// before it ever reaches the fetcher (spec §4.3, component 3).
package skipmatcher

import (
	"regexp"

	"github.com/linkinator-go/linkinator/internal/config"
)

// Matcher evaluates linksToSkip, which is either a list of regexes or
// a predicate (never both: the predicate form takes precedence when
// both are configured, since it is the more specific override).
type Matcher struct {
	patterns  []*regexp.Regexp
	predicate config.SkipPredicate
}

// New compiles opts.LinksToSkip(). An invalid regex is dropped rather
// than failing the whole run — malformed skip patterns are a
// configuration nuisance, not a fatal error, and a dropped pattern
// simply stops matching rather than blocking every link.
func New(opts config.Options) *Matcher {
	m := &Matcher{predicate: opts.SkipPredicate()}
	for _, p := range opts.LinksToSkip() {
		if re, err := regexp.Compile(p); err == nil {
			m.patterns = append(m.patterns, re)
		}
	}
	return m
}

// Match reports whether url should be skipped. For the regex form,
// any pattern finding a match (not necessarily anchored) skips the
// link, short-circuiting on the first hit. For the predicate form, an
// error is folded into "skip" (spec §4.3: predicate failures mark the
// link SKIPPED, never BROKEN).
func (m *Matcher) Match(url string) bool {
	if m.predicate != nil {
		skip, err := m.predicate(url)
		if err != nil {
			return true
		}
		return skip
	}
	for _, re := range m.patterns {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}
