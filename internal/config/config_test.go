package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/linkinator-go/linkinator/internal/config"
	"github.com/stretchr/testify/require"
)

func TestWithDefault_Build(t *testing.T) {
	opts, err := config.WithDefault([]string{"https://example.com"}).Build()
	require.NoError(t, err)
	require.Equal(t, 100, opts.Concurrency())
	require.Equal(t, []string{"https://example.com"}, opts.Path())
}

func TestBuild_EmptyPathFails(t *testing.T) {
	_, err := config.WithDefault(nil).Build()
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestBuild_NonPositiveConcurrencyFails(t *testing.T) {
	_, err := config.WithDefault([]string{"x"}).WithConcurrency(0).Build()
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestWithConfigFile_JSON(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "linkinator.config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{
		"path": ["https://example.com"],
		"concurrency": 5,
		"recurse": true,
		"retry": true
	}`), 0o644))

	opts, err := config.WithConfigFile(cfgPath, nil)
	require.NoError(t, err)
	require.Equal(t, 5, opts.Concurrency())
	require.True(t, opts.Recurse())
	require.True(t, opts.Retry())
}

func TestWithConfigFile_YAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "linkinator.config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("path:\n  - https://example.com\nconcurrency: 7\n"), 0o644))

	opts, err := config.WithConfigFile(cfgPath, nil)
	require.NoError(t, err)
	require.Equal(t, 7, opts.Concurrency())
}

func TestWithConfigFile_MissingFile(t *testing.T) {
	_, err := config.WithConfigFile("/does/not/exist.json", nil)
	require.ErrorIs(t, err, config.ErrFileDoesNotExist)
}
