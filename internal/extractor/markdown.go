package extractor

import (
	"bytes"
	"io"

	"github.com/gomarkdown/markdown"
)

// ExtractMarkdown renders b to HTML with gomarkdown, then runs the
// rendered bytes through ExtractHTML. Rendering itself requires the
// full document in memory — Markdown parsers are not streaming — but
// this is a one-shot conversion, not the crawl-wide buffering the
// streaming requirement on the HTML path guards against.
func ExtractMarkdown(b []byte, emit Emit) error {
	rendered := markdown.ToHTML(b, nil, nil)
	return ExtractHTML(bytes.NewReader(rendered), emit)
}

// Extract dispatches to the HTML or Markdown backend based on ct. For
// ContentMarkdown, r is read fully before rendering; for ContentHTML it
// is streamed directly into the tokenizer.
func Extract(r io.Reader, ct ContentType, emit Emit) error {
	if ct == ContentHTML {
		return ExtractHTML(r, emit)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return ExtractMarkdown(b, emit)
}
