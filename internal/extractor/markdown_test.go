package extractor_test

import (
	"strings"
	"testing"

	"github.com/linkinator-go/linkinator/internal/extractor"
	"github.com/stretchr/testify/require"
)

func TestExtractMarkdown_Link(t *testing.T) {
	var got []string
	err := extractor.ExtractMarkdown([]byte("See [the docs](/docs/guide) for more."), func(u string) {
		got = append(got, u)
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/docs/guide"}, got)
}

func TestExtractMarkdown_Image(t *testing.T) {
	var got []string
	err := extractor.ExtractMarkdown([]byte("![alt](/img/logo.png)"), func(u string) {
		got = append(got, u)
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/img/logo.png"}, got)
}

func TestExtract_DispatchesByContentType(t *testing.T) {
	var got []string
	err := extractor.Extract(
		strings.NewReader(`<a href="/x">x</a>`),
		extractor.ContentHTML,
		func(u string) { got = append(got, u) },
	)
	require.NoError(t, err)
	require.Equal(t, []string{"/x"}, got)

	got = nil
	err = extractor.Extract(
		strings.NewReader("[y](/y)"),
		extractor.ContentMarkdown,
		func(u string) { got = append(got, u) },
	)
	require.NoError(t, err)
	require.Equal(t, []string{"/y"}, got)
}
