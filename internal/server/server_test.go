package server_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/linkinator-go/linkinator/internal/server"
	"github.com/stretchr/testify/require"
)

func TestServer_ServesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("hello"), 0o644))

	s, err := server.Start(dir, false)
	require.NoError(t, err)
	defer s.Shutdown(context.Background())

	resp, err := http.Get(s.Origin() + "/index.html")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))
}

func TestServer_DirectoryWithoutListingIs404(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	s, err := server.Start(dir, false)
	require.NoError(t, err)
	defer s.Shutdown(context.Background())

	resp, err := http.Get(s.Origin() + "/sub")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_DirectoryWithListingRendersEscapedNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "<script>.html"), []byte("x"), 0o644))

	s, err := server.Start(dir, true)
	require.NoError(t, err)
	defer s.Shutdown(context.Background())

	resp, err := http.Get(s.Origin() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "&lt;script&gt;")
	require.NotContains(t, string(body), "<script>.html")
}

func TestServer_MissingFileIs404(t *testing.T) {
	dir := t.TempDir()
	s, err := server.Start(dir, false)
	require.NoError(t, err)
	defer s.Shutdown(context.Background())

	resp, err := http.Get(s.Origin() + "/nope.html")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
