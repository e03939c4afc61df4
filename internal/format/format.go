// Package format renders a finished CrawlResult for the CLI surface
// (spec §6: "--format {TEXT|JSON|CSV}"). This is an external
// collaborator, not the core: spec §1 explicitly places "CSV/JSON
// serialization of results" and "ANSI-colored terminal formatting" out
// of the core's scope, leaving presentation to a caller.
//
// Grounded on TarikTz-gopherseo's internal/output package for the
// write-to-an-io.Writer, one-function-per-format shape, generalized
// from gopherseo's file-writing XML/Markdown outputs to the three
// wire formats this spec names. No ANSI color library is wired here:
// the retrieved example pack carries no terminal-color dependency
// (fatih/color, gookit/color, aurora — none appear in any _examples
// go.mod), so TEXT rendering stays plain stdlib fmt, matching spec
// §1's own exclusion of colored output from scope.
package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/linkinator-go/linkinator/internal/linkmodel"
)

// Kind selects which wire format Write produces.
type Kind string

const (
	Text Kind = "TEXT"
	JSON Kind = "JSON"
	CSV  Kind = "CSV"
)

// ParseKind validates a --format flag value, case-insensitively.
func ParseKind(raw string) (Kind, error) {
	switch Kind(upperASCII(raw)) {
	case Text:
		return Text, nil
	case JSON:
		return JSON, nil
	case CSV:
		return CSV, nil
	default:
		return "", fmt.Errorf("format: unknown format %q, want TEXT, JSON, or CSV", raw)
	}
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// Write renders result as kind to w.
func Write(w io.Writer, result linkmodel.CrawlResult, kind Kind) error {
	switch kind {
	case JSON:
		return writeJSON(w, result)
	case CSV:
		return writeCSV(w, result)
	default:
		return writeText(w, result)
	}
}

// writeText renders one line per link: STATE, status, URL, and parent
// when present, mirroring the teacher's pack's plain-text summary
// style (no color, since none is wired — see package doc).
func writeText(w io.Writer, result linkmodel.CrawlResult) error {
	for _, l := range result.Links {
		line := fmt.Sprintf("%-7s %3d %s", l.State(), l.Status(), l.URL())
		if l.Parent() != "" {
			line += fmt.Sprintf(" (found on %s)", l.Parent())
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	summary := "PASSED"
	if !result.Passed {
		summary = "FAILED"
	}
	_, err := fmt.Fprintf(w, "\n%s: %d link(s) checked\n", summary, len(result.Links))
	return err
}

// jsonLinkResult mirrors linkmodel.LinkResult's accessor surface into
// an exported shape encoding/json can see.
type jsonLinkResult struct {
	URL            string                        `json:"url"`
	Status         int                           `json:"status"`
	State          linkmodel.State               `json:"state"`
	Parent         string                        `json:"parent,omitempty"`
	FailureDetails []linkmodel.AttemptDetail      `json:"failureDetails,omitempty"`
}

type jsonCrawlResult struct {
	Passed bool             `json:"passed"`
	Links  []jsonLinkResult `json:"links"`
}

func writeJSON(w io.Writer, result linkmodel.CrawlResult) error {
	out := jsonCrawlResult{Passed: result.Passed, Links: make([]jsonLinkResult, 0, len(result.Links))}
	for _, l := range result.Links {
		out.Links = append(out.Links, jsonLinkResult{
			URL:            l.URL(),
			Status:         l.Status(),
			State:          l.State(),
			Parent:         l.Parent(),
			FailureDetails: l.FailureDetails(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeCSV follows the wire format spec §6 names exactly:
// "url,status,state,parent,failureDetails" with failureDetails a
// quoted JSON-encoded string.
func writeCSV(w io.Writer, result linkmodel.CrawlResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"url", "status", "state", "parent", "failureDetails"}); err != nil {
		return err
	}
	for _, l := range result.Links {
		detailsJSON := "[]"
		if details := l.FailureDetails(); len(details) > 0 {
			b, err := json.Marshal(details)
			if err != nil {
				return err
			}
			detailsJSON = string(b)
		}
		row := []string{
			l.URL(),
			fmt.Sprintf("%d", l.Status()),
			string(l.State()),
			l.Parent(),
			detailsJSON,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
