package normalize_test

import (
	"net/url"
	"testing"

	"github.com/linkinator-go/linkinator/internal/linkmodel"
	"github.com/linkinator-go/linkinator/internal/normalize"
	"github.com/linkinator-go/linkinator/pkg/urlutil"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestResolve_RelativePath(t *testing.T) {
	n := normalize.New(nil)
	parent := mustParse(t, "https://example.com/docs/index.html")

	c, err := n.Resolve("guide.html", parent, "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/docs/guide.html", c.Resolved)
	require.Equal(t, urlutil.SchemeHTTP, c.Scheme)
	require.True(t, c.InScope)
}

func TestResolve_FragmentOnlyInheritsOrigin(t *testing.T) {
	n := normalize.New(nil)
	parent := mustParse(t, "https://example.com/docs/index.html")

	c, err := n.Resolve("#section", parent, "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/docs/index.html", c.Resolved)
	require.True(t, c.InScope)
}

func TestResolve_CrossOriginIsOutOfScope(t *testing.T) {
	n := normalize.New(nil)
	parent := mustParse(t, "https://example.com/docs/index.html")

	c, err := n.Resolve("https://other.example/page", parent, "https://example.com")
	require.NoError(t, err)
	require.False(t, c.InScope)
}

func TestResolve_FileScheme(t *testing.T) {
	n := normalize.New(nil)
	parent := mustParse(t, "file:///var/www/index.html")

	c, err := n.Resolve("about.html", parent, "file://")
	require.NoError(t, err)
	require.Equal(t, urlutil.SchemeFile, c.Scheme)
}

func TestResolve_OtherScheme(t *testing.T) {
	n := normalize.New(nil)
	parent := mustParse(t, "https://example.com/")

	c, err := n.Resolve("mailto:hi@example.com", parent, "https://example.com")
	require.NoError(t, err)
	require.Equal(t, urlutil.SchemeOther, c.Scheme)
}

func TestResolve_AppliesRewriteRulesInOrder(t *testing.T) {
	n := normalize.New([]linkmodel.UrlRewriteRule{
		{Pattern: `^/old/`, Replacement: "/new/"},
		{Pattern: `\.htm$`, Replacement: ".html"},
	})
	parent := mustParse(t, "https://example.com/")

	c, err := n.Resolve("/old/page.htm", parent, "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/new/page.html", c.Resolved)
}

func TestResolve_InvalidRuleIsDropped(t *testing.T) {
	n := normalize.New([]linkmodel.UrlRewriteRule{
		{Pattern: "(unterminated", Replacement: "x"},
	})
	parent := mustParse(t, "https://example.com/")

	c, err := n.Resolve("/page", parent, "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/page", c.Resolved)
}

func TestResolve_StripsFragmentOnAbsoluteLink(t *testing.T) {
	n := normalize.New(nil)
	parent := mustParse(t, "https://example.com/")

	c, err := n.Resolve("https://example.com/page#anchor", parent, "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/page", c.Resolved)
}
