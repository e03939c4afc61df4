// Package cli is the CLI surface of spec §6: a thin cobra driver over
// the core checker package. It parses flags/config, calls
// checker.Check, and prints — no crawl logic lives here.
//
// Grounded on the teacher's internal/cli/root.go (a rootCmd carrying
// every flag, a cfgFile-vs-flags InitConfig split) and on
// TarikTz-gopherseo's cmd/root.go (SilenceErrors/SilenceUsage so
// RunE's own error formatting is authoritative). Departs from the
// teacher's package-level flag vars: each call builds its own
// *cobra.Command with freshly-scoped flag variables, so repeated
// Execute calls (as in a test suite) never see stale state from a
// previous invocation.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkinator-go/linkinator/internal/checker"
	"github.com/linkinator-go/linkinator/internal/config"
	"github.com/linkinator-go/linkinator/internal/format"
	"github.com/linkinator-go/linkinator/internal/linkmodel"
)

// Verbosity mirrors spec §6's --verbosity levels. Only debug and info
// print per-link and retry progress to stderr; warning, error and none
// (the same as --silent) print nothing beyond the final report that is
// always written to stdout.
type Verbosity string

const (
	VerbosityDebug   Verbosity = "debug"
	VerbosityInfo    Verbosity = "info"
	VerbosityWarning Verbosity = "warning"
	VerbosityError   Verbosity = "error"
	VerbosityNone    Verbosity = "none"
)

var validVerbosity = map[Verbosity]bool{
	VerbosityDebug: true, VerbosityInfo: true, VerbosityWarning: true,
	VerbosityError: true, VerbosityNone: true,
}

// errBrokenLinks signals "exit 1, but don't print a usage/error line"
// — Execute maps it to the spec's documented exit code without
// treating it as an option/argument failure.
var errBrokenLinks = fmt.Errorf("linkinator: broken links found")

// flagSet holds every bound flag variable for one command invocation.
type flagSet struct {
	cfgFile            string
	concurrency        int
	directoryListing   bool
	format             string
	markdown           bool
	recurse            bool
	retry              bool
	retryNoHeader      bool
	retryNoHeaderCount int
	retryNoHeaderDelay int
	retryErrors        bool
	retryErrorsCount   int
	retryErrorsJitter  int
	serverRoot         string
	silent             bool
	skip               []string
	timeout            int
	urlRewriteSearch   []string
	urlRewriteReplace  []string
	userAgent          string
	verbosity          string
}

// NewRootCmd builds the single command this CLI exposes: `linkinator
// LOCATION [LOCATION...] [flags]` (spec §6: "PROG LOCATION
// [options]"). Each call returns an independent command with its own
// flag bindings, so concurrent or repeated invocations never share
// mutable state.
func NewRootCmd() *cobra.Command {
	fs := &flagSet{}

	cmd := &cobra.Command{
		Use:           "linkinator LOCATION...",
		Short:         "Find broken links, missing images, and other 404s across a site",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, verbosity, err := fs.buildOptions(cmd, args)
			if err != nil {
				return err
			}

			kind, err := format.ParseKind(fs.format)
			if err != nil {
				return err
			}

			result, err := runCrawl(cmd.Context(), opts, verbosity, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err := format.Write(cmd.OutOrStdout(), result, kind); err != nil {
				return err
			}

			if !result.Passed {
				return errBrokenLinks
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&fs.cfgFile, "config", "linkinator.config.json", "path to a config file")
	flags.IntVar(&fs.concurrency, "concurrency", 100, "maximum number of in-flight requests")
	flags.BoolVar(&fs.directoryListing, "directory-listing", false, "serve generated index pages for directory URLs")
	flags.StringVar(&fs.format, "format", "TEXT", "output format: TEXT, JSON, or CSV")
	flags.BoolVar(&fs.markdown, "markdown", false, "treat on-disk .md files as crawlable documents")
	flags.BoolVarP(&fs.recurse, "recurse", "r", false, "follow links found on pages within the same origin as the seed")
	flags.BoolVar(&fs.retry, "retry", false, "retry 429 responses that carry a retry-after header")
	flags.BoolVar(&fs.retryNoHeader, "retry-no-header", false, "retry 429 responses with no retry-after header")
	flags.IntVar(&fs.retryNoHeaderCount, "retry-no-header-count", 5, "max retries for a headerless 429 (-1 = unbounded)")
	flags.IntVar(&fs.retryNoHeaderDelay, "retry-no-header-delay", 60000, "delay in ms between headerless 429 retries")
	flags.BoolVar(&fs.retryErrors, "retry-errors", false, "retry 5xx and network errors with exponential backoff")
	flags.IntVar(&fs.retryErrorsCount, "retry-errors-count", 5, "max retries for a 5xx/network error")
	flags.IntVar(&fs.retryErrorsJitter, "retry-errors-jitter", 3000, "uniform jitter in ms added atop the exponential backoff")
	flags.StringVar(&fs.serverRoot, "server-root", "", "filesystem root the static server serves (defaults to the first path)")
	flags.BoolVar(&fs.silent, "silent", false, "suppress per-link progress output")
	flags.StringArrayVarP(&fs.skip, "skip", "s", nil, "regex of links to skip; whitespace/comma separated, repeatable")
	flags.IntVar(&fs.timeout, "timeout", 0, "per-request timeout in ms (0 = none)")
	flags.StringArrayVar(&fs.urlRewriteSearch, "url-rewrite-search", nil, "regex to match against discovered URLs, repeatable")
	flags.StringArrayVar(&fs.urlRewriteReplace, "url-rewrite-replace", nil, "replacement text paired positionally with --url-rewrite-search")
	flags.StringVar(&fs.userAgent, "user-agent", "linkinator/1.0", "User-Agent header sent with every request")
	flags.StringVar(&fs.verbosity, "verbosity", "", "log verbosity: debug, info, warning, error, none")

	return cmd
}

// Execute parses os.Args against a fresh command and returns the
// process exit code spec §6 documents: 0 passed, 1 on any BROKEN
// link, non-zero on option/argument errors.
func Execute() int {
	return ExecuteArgs(os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteArgs is Execute with args and the output streams supplied
// explicitly, so tests can drive the CLI end to end without touching
// the real os.Args/os.Stdout.
func ExecuteArgs(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	return exitCodeFor(err, stderr)
}

func exitCodeFor(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case err == errBrokenLinks:
		return 1
	default:
		fmt.Fprintf(stderr, "linkinator: %v\n", err)
		return 2
	}
}

// buildOptions layers cobra flags over an optional config file, the
// way the teacher's InitConfigWithError layers flags over
// config.WithConfigFile — except here both apply: a config file sets
// the baseline and any flag the caller actually passed overrides it
// (spec §6: "CLI flags override file values").
func (fs *flagSet) buildOptions(cmd *cobra.Command, paths []string) (config.Options, Verbosity, error) {
	verbosity, err := fs.resolveVerbosity()
	if err != nil {
		return config.Options{}, "", err
	}

	rules, err := zipRewrites(fs.urlRewriteSearch, fs.urlRewriteReplace)
	if err != nil {
		return config.Options{}, "", err
	}

	b, err := fs.baseBuilder(paths, cmd.Flags().Changed("config"))
	if err != nil {
		return config.Options{}, "", err
	}

	changed := cmd.Flags().Changed
	if changed("concurrency") {
		b = b.WithConcurrency(fs.concurrency)
	}
	if changed("timeout") {
		b = b.WithTimeout(time.Duration(fs.timeout) * time.Millisecond)
	}
	if changed("recurse") {
		b = b.WithRecurse(fs.recurse)
	}
	if changed("markdown") {
		b = b.WithMarkdown(fs.markdown)
	}
	if changed("directory-listing") {
		b = b.WithDirectoryListing(fs.directoryListing)
	}
	if changed("server-root") {
		b = b.WithServerRoot(fs.serverRoot)
	}
	if len(fs.skip) > 0 {
		b = b.WithLinksToSkip(splitSkipPatterns(fs.skip))
	}
	if changed("retry") {
		b = b.WithRetry(fs.retry)
	}
	if changed("retry-no-header") {
		b = b.WithRetryNoHeader(fs.retryNoHeader)
	}
	if changed("retry-no-header-count") {
		b = b.WithRetryNoHeaderCount(fs.retryNoHeaderCount)
	}
	if changed("retry-no-header-delay") {
		b = b.WithRetryNoHeaderDelay(time.Duration(fs.retryNoHeaderDelay) * time.Millisecond)
	}
	if changed("retry-errors") {
		b = b.WithRetryErrors(fs.retryErrors)
	}
	if changed("retry-errors-count") {
		b = b.WithRetryErrorsCount(fs.retryErrorsCount)
	}
	if changed("retry-errors-jitter") {
		b = b.WithRetryErrorsJitter(time.Duration(fs.retryErrorsJitter) * time.Millisecond)
	}
	if changed("user-agent") {
		b = b.WithUserAgent(fs.userAgent)
	}
	if len(rules) > 0 {
		b = b.WithURLRewriteExpressions(rules)
	}

	opts, err := b.Build()
	if err != nil {
		return config.Options{}, "", err
	}
	return opts, verbosity, nil
}

// baseBuilder loads cfgFile when present, falling back to
// config.WithDefault(paths) when there is no config file at all (spec
// §6: the config file is optional; its documented default name is
// linkinator.config.json, but an unexplained absence at that default
// path is not an error — only an explicit --config pointing nowhere is).
func (fs *flagSet) baseBuilder(paths []string, explicit bool) (*config.Builder, error) {
	if fs.cfgFile == "" {
		return config.WithDefault(paths), nil
	}
	if _, err := os.Stat(fs.cfgFile); err != nil {
		if explicit {
			return nil, fmt.Errorf("--config %s: %w", fs.cfgFile, err)
		}
		return config.WithDefault(paths), nil
	}
	opts, err := config.WithConfigFile(fs.cfgFile, paths)
	if err != nil {
		return nil, err
	}
	return config.FromOptions(opts), nil
}

// resolveVerbosity enforces the documented conflict: --silent and
// --verbosity are mutually exclusive (spec §6).
func (fs *flagSet) resolveVerbosity() (Verbosity, error) {
	if fs.silent && fs.verbosity != "" {
		return "", fmt.Errorf("--silent and --verbosity are mutually exclusive")
	}
	if fs.silent {
		return VerbosityNone, nil
	}
	if fs.verbosity == "" {
		return VerbosityWarning, nil
	}
	v := Verbosity(strings.ToLower(fs.verbosity))
	if !validVerbosity[v] {
		return "", fmt.Errorf("invalid --verbosity %q: want debug, info, warning, error, or none", fs.verbosity)
	}
	return v, nil
}

// zipRewrites implements the mutual-implication rule:
// --url-rewrite-search and --url-rewrite-replace require each other
// and must pair up 1:1.
func zipRewrites(search, replace []string) ([]linkmodel.UrlRewriteRule, error) {
	if len(search) == 0 && len(replace) == 0 {
		return nil, nil
	}
	if len(search) == 0 || len(replace) == 0 {
		return nil, fmt.Errorf("--url-rewrite-search and --url-rewrite-replace require each other")
	}
	if len(search) != len(replace) {
		return nil, fmt.Errorf("--url-rewrite-search and --url-rewrite-replace must be repeated the same number of times")
	}
	rules := make([]linkmodel.UrlRewriteRule, len(search))
	for i := range search {
		if _, err := regexp.Compile(search[i]); err != nil {
			return nil, fmt.Errorf("invalid --url-rewrite-search pattern %q: %w", search[i], err)
		}
		rules[i] = linkmodel.UrlRewriteRule{Pattern: search[i], Replacement: replace[i]}
	}
	return rules, nil
}

// splitSkipPatterns implements spec §6's "--skip accepts
// whitespace/comma-separated regex strings, repeatable": each
// occurrence of the flag may itself carry several patterns.
func splitSkipPatterns(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, field := range strings.FieldsFunc(entry, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}) {
			if field != "" {
				out = append(out, field)
			}
		}
	}
	return out
}

// runCrawl executes one crawl, wiring OnLink/OnRetry listeners that
// print progress at verbosity debug/info, matching the teacher's
// print-as-you-go CLI style.
func runCrawl(ctx context.Context, opts config.Options, verbosity Verbosity, stderr io.Writer) (linkmodel.CrawlResult, error) {
	lc := checker.NewLinkChecker()

	if verbosity == VerbosityDebug || verbosity == VerbosityInfo {
		lc.OnRetry(func(info linkmodel.RetryInfo) {
			fmt.Fprintf(stderr, "retrying %s in %.0fs (status %d)\n", info.URL, info.SecondsUntilRetry, info.Status)
		})
		lc.OnLink(func(l linkmodel.LinkResult) {
			fmt.Fprintf(stderr, "%s %s\n", l.State(), l.URL())
		})
	}

	return lc.Check(ctx, opts)
}
