// Package config builds a validated CheckOptions record (spec §3).
//
// Grounded on the teacher's internal/config.Config: a private struct,
// a With*-method builder chain, a Build() that validates, and a
// config-file loader that starts from defaults and overrides only the
// fields the file sets. CLI flags layer on top exactly as
// internal/cli/root.go layers cobra flags over config.WithConfigFile.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linkinator-go/linkinator/internal/linkmodel"
	"gopkg.in/yaml.v3"
)

// dto mirrors Options' fields with JSON/YAML tags, for config-file
// loading (linkinator.config.json, spec §6).
type dto struct {
	Path               []string          `json:"path" yaml:"path"`
	Concurrency        int               `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	TimeoutMs          int               `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Recurse            bool              `json:"recurse,omitempty" yaml:"recurse,omitempty"`
	Markdown           bool              `json:"markdown,omitempty" yaml:"markdown,omitempty"`
	DirectoryListing   bool              `json:"directoryListing,omitempty" yaml:"directoryListing,omitempty"`
	ServerRoot         string            `json:"serverRoot,omitempty" yaml:"serverRoot,omitempty"`
	LinksToSkip        []string          `json:"linksToSkip,omitempty" yaml:"linksToSkip,omitempty"`
	Retry              bool              `json:"retry,omitempty" yaml:"retry,omitempty"`
	RetryNoHeader      bool              `json:"retryNoHeader,omitempty" yaml:"retryNoHeader,omitempty"`
	RetryNoHeaderCount int               `json:"retryNoHeaderCount,omitempty" yaml:"retryNoHeaderCount,omitempty"`
	RetryNoHeaderDelayMs int             `json:"retryNoHeaderDelay,omitempty" yaml:"retryNoHeaderDelay,omitempty"`
	RetryErrors        bool              `json:"retryErrors,omitempty" yaml:"retryErrors,omitempty"`
	RetryErrorsCount   int               `json:"retryErrorsCount,omitempty" yaml:"retryErrorsCount,omitempty"`
	RetryErrorsJitterMs int              `json:"retryErrorsJitter,omitempty" yaml:"retryErrorsJitter,omitempty"`
	ExtraHeaders       map[string]string `json:"extraHeaders,omitempty" yaml:"extraHeaders,omitempty"`
	UserAgent          string            `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	URLRewriteSearch   []string          `json:"urlRewriteSearch,omitempty" yaml:"urlRewriteSearch,omitempty"`
	URLRewriteReplace  []string          `json:"urlRewriteReplace,omitempty" yaml:"urlRewriteReplace,omitempty"`
}

// WithConfigFile loads path (JSON, or YAML when the extension is
// .yaml/.yml) and builds Options from it, starting from defaults.
func WithConfigFile(path string, seedPaths []string) (Options, error) {
	if _, err := os.Stat(path); err != nil {
		return Options{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	var d dto
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		err = yaml.Unmarshal(content, &d)
	} else {
		err = json.Unmarshal(content, &d)
	}
	if err != nil {
		return Options{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	paths := d.Path
	if len(paths) == 0 {
		paths = seedPaths
	}

	b := WithDefault(paths)
	if d.Concurrency > 0 {
		b = b.WithConcurrency(d.Concurrency)
	}
	if d.TimeoutMs > 0 {
		b = b.WithTimeout(time.Duration(d.TimeoutMs) * time.Millisecond)
	}
	b = b.WithRecurse(d.Recurse).WithMarkdown(d.Markdown).WithDirectoryListing(d.DirectoryListing)
	if d.ServerRoot != "" {
		b = b.WithServerRoot(d.ServerRoot)
	}
	if len(d.LinksToSkip) > 0 {
		b = b.WithLinksToSkip(d.LinksToSkip)
	}
	b = b.WithRetry(d.Retry).WithRetryNoHeader(d.RetryNoHeader).WithRetryErrors(d.RetryErrors)
	if d.RetryNoHeaderCount != 0 {
		b = b.WithRetryNoHeaderCount(d.RetryNoHeaderCount)
	}
	if d.RetryNoHeaderDelayMs > 0 {
		b = b.WithRetryNoHeaderDelay(time.Duration(d.RetryNoHeaderDelayMs) * time.Millisecond)
	}
	if d.RetryErrorsCount > 0 {
		b = b.WithRetryErrorsCount(d.RetryErrorsCount)
	}
	if d.RetryErrorsJitterMs > 0 {
		b = b.WithRetryErrorsJitter(time.Duration(d.RetryErrorsJitterMs) * time.Millisecond)
	}
	if len(d.ExtraHeaders) > 0 {
		b = b.WithExtraHeaders(d.ExtraHeaders)
	}
	if d.UserAgent != "" {
		b = b.WithUserAgent(d.UserAgent)
	}
	if len(d.URLRewriteSearch) > 0 {
		rules, err := zipRewriteRules(d.URLRewriteSearch, d.URLRewriteReplace)
		if err != nil {
			return Options{}, err
		}
		b = b.WithURLRewriteExpressions(rules)
	}

	return b.Build()
}

func zipRewriteRules(search, replace []string) ([]linkmodel.UrlRewriteRule, error) {
	if len(search) != len(replace) {
		return nil, fmt.Errorf("%w: urlRewriteSearch and urlRewriteReplace must have the same length", ErrInvalidConfig)
	}
	rules := make([]linkmodel.UrlRewriteRule, len(search))
	for i := range search {
		rules[i] = linkmodel.UrlRewriteRule{Pattern: search[i], Replacement: replace[i]}
	}
	return rules, nil
}

// WithDefault starts a builder from the spec's documented defaults:
// concurrency=100, timeout=0 (none). retryNoHeaderCount and
// retryErrorsCount default to 5, retryNoHeaderDelay to 60s and
// retryErrorsJitter to 3s; each only takes effect once the caller
// enables the respective retry policy.
func WithDefault(path []string) *Builder {
	return &Builder{
		opts: Options{
			path:               path,
			concurrency:        100,
			retryNoHeaderCount: 5,
			retryNoHeaderDelay: 60 * time.Second,
			retryErrorsCount:   5,
			retryErrorsJitter:  3 * time.Second,
			userAgent:          "linkinator/1.0",
		},
	}
}

// FromOptions starts a builder from an already-built Options snapshot,
// so a caller (the CLI) can layer further overrides on top of a
// config-file load without re-validating from scratch until Build.
func FromOptions(o Options) *Builder {
	return &Builder{opts: o}
}

// Builder accumulates Options overrides via method chaining, the way
// config.Config does in the teacher.
type Builder struct {
	opts Options
}

func (b *Builder) WithPath(path []string) *Builder                { b.opts.path = path; return b }
func (b *Builder) WithConcurrency(n int) *Builder                 { b.opts.concurrency = n; return b }
func (b *Builder) WithTimeout(d time.Duration) *Builder           { b.opts.timeout = d; return b }
func (b *Builder) WithRecurse(v bool) *Builder                    { b.opts.recurse = v; return b }
func (b *Builder) WithMarkdown(v bool) *Builder                   { b.opts.markdown = v; return b }
func (b *Builder) WithDirectoryListing(v bool) *Builder           { b.opts.directoryListing = v; return b }
func (b *Builder) WithServerRoot(root string) *Builder            { b.opts.serverRoot = root; return b }
func (b *Builder) WithLinksToSkip(patterns []string) *Builder     { b.opts.linksToSkip = patterns; return b }
func (b *Builder) WithSkipPredicate(p SkipPredicate) *Builder     { b.opts.skipPredicate = p; return b }
func (b *Builder) WithRetry(v bool) *Builder                      { b.opts.retry = v; return b }
func (b *Builder) WithRetryNoHeader(v bool) *Builder              { b.opts.retryNoHeader = v; return b }
func (b *Builder) WithRetryNoHeaderCount(n int) *Builder          { b.opts.retryNoHeaderCount = n; return b }
func (b *Builder) WithRetryNoHeaderDelay(d time.Duration) *Builder { b.opts.retryNoHeaderDelay = d; return b }
func (b *Builder) WithRetryErrors(v bool) *Builder                { b.opts.retryErrors = v; return b }
func (b *Builder) WithRetryErrorsCount(n int) *Builder            { b.opts.retryErrorsCount = n; return b }
func (b *Builder) WithRetryErrorsJitter(d time.Duration) *Builder { b.opts.retryErrorsJitter = d; return b }
func (b *Builder) WithExtraHeaders(h map[string]string) *Builder  { b.opts.extraHeaders = h; return b }
func (b *Builder) WithUserAgent(ua string) *Builder               { b.opts.userAgent = ua; return b }
func (b *Builder) WithURLRewriteExpressions(r []linkmodel.UrlRewriteRule) *Builder {
	b.opts.urlRewriteExpressions = r
	return b
}

// Build validates the accumulated Options and returns the immutable
// snapshot, or ErrInvalidConfig if path is empty or concurrency is
// non-positive.
func (b *Builder) Build() (Options, error) {
	if len(b.opts.path) == 0 {
		return Options{}, fmt.Errorf("%w: path cannot be empty", ErrInvalidConfig)
	}
	if b.opts.concurrency <= 0 {
		return Options{}, fmt.Errorf("%w: concurrency must be positive", ErrInvalidConfig)
	}
	return b.opts, nil
}
