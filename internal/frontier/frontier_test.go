package frontier_test

import (
	"net/url"
	"testing"

	"github.com/linkinator-go/linkinator/internal/frontier"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return *u
}

func TestFrontier_AdmitEnqueuesNewURL(t *testing.T) {
	f := frontier.New()
	ok := f.Admit(mustParse(t, "https://example.com/a"), "https://example.com/", true)
	require.True(t, ok)
	require.Equal(t, 1, f.Size())
}

func TestFrontier_DuplicateAdmitDiscarded(t *testing.T) {
	f := frontier.New()
	require.True(t, f.Admit(mustParse(t, "https://example.com/a"), "https://example.com/", true))
	ok := f.Admit(mustParse(t, "https://example.com/a"), "https://example.com/other", true)
	require.False(t, ok)
	require.Equal(t, 1, f.Size())
}

func TestFrontier_StructuralDedupeCollapsesTrailingSlash(t *testing.T) {
	f := frontier.New()
	require.True(t, f.Admit(mustParse(t, "https://example.com/a/"), "p", true))
	ok := f.Admit(mustParse(t, "https://example.com/a"), "p", true)
	require.False(t, ok)
}

func TestFrontier_DistinctQueryIsNotDuplicate(t *testing.T) {
	f := frontier.New()
	require.True(t, f.Admit(mustParse(t, "https://example.com/a?x=1"), "p", true))
	ok := f.Admit(mustParse(t, "https://example.com/a?x=2"), "p", true)
	require.True(t, ok)
	require.Equal(t, 2, f.Size())
}

func TestFrontier_DequeueFIFOOrder(t *testing.T) {
	f := frontier.New()
	f.Admit(mustParse(t, "https://example.com/a"), "p", true)
	f.Admit(mustParse(t, "https://example.com/b"), "p", true)

	first, ok := f.Dequeue()
	require.True(t, ok)
	require.Equal(t, "https://example.com/a", first.URL)

	second, ok := f.Dequeue()
	require.True(t, ok)
	require.Equal(t, "https://example.com/b", second.URL)

	_, ok = f.Dequeue()
	require.False(t, ok)
}

func TestFrontier_VisitedCount(t *testing.T) {
	f := frontier.New()
	f.Admit(mustParse(t, "https://example.com/a"), "p", true)
	f.Admit(mustParse(t, "https://example.com/a"), "p", true)
	f.Admit(mustParse(t, "https://example.com/b"), "p", true)
	require.Equal(t, 2, f.VisitedCount())
}
