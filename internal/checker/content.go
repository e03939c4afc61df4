package checker

import (
	"net/url"
	"path"
	"strings"

	"github.com/linkinator-go/linkinator/internal/extractor"
)

// extractionKind decides whether a fetched document should be handed
// to the Link Extractor and, if so, which back-end to use (spec §4.1:
// "only files with Markdown MIME or extension ... and only when
// markdown is set").
func extractionKind(rawURL string, headers map[string]string, markdownEnabled bool) (extractor.ContentType, bool) {
	if markdownEnabled && hasMarkdownExtension(rawURL) {
		return extractor.ContentMarkdown, true
	}
	ct := strings.ToLower(headers["Content-Type"])
	if strings.Contains(ct, "text/markdown") && markdownEnabled {
		return extractor.ContentMarkdown, true
	}
	if strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml") || hasHTMLExtension(rawURL) {
		return extractor.ContentHTML, true
	}
	return extractor.ContentHTML, false
}

func hasMarkdownExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	return ext == ".md" || ext == ".markdown"
}

// hasHTMLExtension lets a local filesystem document (no Content-Type
// header to consult) still be recognized as HTML by its extension.
func hasHTMLExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	return ext == ".html" || ext == ".htm"
}
