package urlutil_test

import (
	"net/url"
	"testing"

	"github.com/linkinator-go/linkinator/pkg/urlutil"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return *u
}

func TestCanonicalize(t *testing.T) {
	in := mustParse(t, "HTTP://Example.com:80/a/b/#frag")
	out := urlutil.Canonicalize(in)
	require.Equal(t, "http://example.com/a/b", out.String())
}

func TestCanonicalize_RootPathKept(t *testing.T) {
	in := mustParse(t, "https://example.com/")
	out := urlutil.Canonicalize(in)
	require.Equal(t, "/", out.Path)
}

func TestDedupeKey_QueryDistinguishes(t *testing.T) {
	a := mustParse(t, "https://example.com/p?x=1")
	b := mustParse(t, "https://example.com/p?x=2")
	require.NotEqual(t, urlutil.DedupeKey(a), urlutil.DedupeKey(b))
}

func TestDedupeKey_TrailingSlashCollapses(t *testing.T) {
	a := mustParse(t, "https://example.com/p/")
	b := mustParse(t, "https://example.com/p")
	require.Equal(t, urlutil.DedupeKey(a), urlutil.DedupeKey(b))
}

func TestOrigin(t *testing.T) {
	a := mustParse(t, "https://example.com/a")
	b := mustParse(t, "https://example.com/b#frag")
	require.Equal(t, urlutil.Origin(a), urlutil.Origin(b))

	c := mustParse(t, "https://other.com/a")
	require.NotEqual(t, urlutil.Origin(a), urlutil.Origin(c))
}

func TestClassifyScheme(t *testing.T) {
	require.Equal(t, urlutil.SchemeHTTP, urlutil.ClassifyScheme("HTTPS"))
	require.Equal(t, urlutil.SchemeFile, urlutil.ClassifyScheme("file"))
	require.Equal(t, urlutil.SchemeOther, urlutil.ClassifyScheme("mailto"))
}
