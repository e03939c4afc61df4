// Package fileutil holds small filesystem helpers shared by the
// file:// fetcher and the crawler engine. Grounded on the
// teacher's pkg/fileutil; trimmed to what a read-only crawler needs
// (no EnsureDir — this system never writes to disk, per the
// persistence-between-runs Non-goal).
package fileutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Extension returns a path's file extension without the leading dot,
// or "" if there is none.
func Extension(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimPrefix(ext, ".")
}

// Stat reports whether path exists and, if so, whether it is a
// directory. The second return value is false when the path does not
// exist; any other stat error is folded into "does not exist" since
// the caller only needs to know whether to mark the link broken.
func Stat(path string) (isDir bool, exists bool) {
	info, err := os.Stat(path)
	if err != nil {
		return false, false
	}
	return info.IsDir(), true
}
