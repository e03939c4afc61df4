package fetcher

import (
	"net/http"
	"net/url"

	"github.com/linkinator-go/linkinator/pkg/failure"
	"github.com/linkinator-go/linkinator/pkg/fileutil"
)

// AttemptFile resolves a file:// URL to a filesystem path and checks
// existence (spec §4.4: "file:// URLs ... mark OK if the path exists
// ... else BROKEN with synthetic status 404"). There is no retry
// policy for this path: a missing file is immediately terminal.
func AttemptFile(fileURL string, directoryListing bool) (Result, failure.ClassifiedError) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return Result{}, &Error{Cause: CauseNotFound, Status: http.StatusNotFound, Retryable: false, wrapped: err}
	}

	isDir, exists := fileutil.Stat(u.Path)
	if !exists {
		return Result{}, &Error{Cause: CauseNotFound, Status: http.StatusNotFound, Retryable: false}
	}
	if isDir && !directoryListing {
		return Result{}, &Error{Cause: CauseNotFound, Status: http.StatusNotFound, Retryable: false}
	}

	return Result{StatusCode: http.StatusOK, Method: "STAT"}, nil
}
