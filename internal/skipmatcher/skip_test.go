package skipmatcher_test

import (
	"errors"
	"testing"

	"github.com/linkinator-go/linkinator/internal/config"
	"github.com/linkinator-go/linkinator/internal/skipmatcher"
	"github.com/stretchr/testify/require"
)

func TestMatch_Regex(t *testing.T) {
	opts, err := config.WithDefault([]string{"x"}).WithLinksToSkip([]string{`^https://skip\.`}).Build()
	require.NoError(t, err)

	m := skipmatcher.New(opts)
	require.True(t, m.Match("https://skip.example/foo"))
	require.False(t, m.Match("https://keep.example/foo"))
}

func TestMatch_Predicate(t *testing.T) {
	opts, err := config.WithDefault([]string{"x"}).WithSkipPredicate(func(url string) (bool, error) {
		return url == "https://skip.example/only", nil
	}).Build()
	require.NoError(t, err)

	m := skipmatcher.New(opts)
	require.True(t, m.Match("https://skip.example/only"))
	require.False(t, m.Match("https://keep.example/foo"))
}

func TestMatch_PredicateErrorSkips(t *testing.T) {
	opts, err := config.WithDefault([]string{"x"}).WithSkipPredicate(func(url string) (bool, error) {
		return false, errors.New("boom")
	}).Build()
	require.NoError(t, err)

	m := skipmatcher.New(opts)
	require.True(t, m.Match("https://example.com"))
}
