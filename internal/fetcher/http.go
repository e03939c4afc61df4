// Package fetcher performs one logical fetch attempt per URL: HEAD
// with a GET fallback, header capture, and streaming hand-off to the
// Link Extractor for HTML bodies that are being recursed into (spec
// §4.4, component 4).
//
// Grounded on the teacher's internal/fetcher.HtmlFetcher, but the
// retry loop is removed entirely: the teacher retries inline with
// pkg/retry.Retry's blocking time.Sleep, which this domain's
// non-blocking concurrency model can't afford (a sleeping retry must
// give its concurrency slot back, not hold it). Attempt here performs a
// single attempt and reports a classified, retryable-or-not outcome;
// the retry scheduling decision and the delay itself live in
// internal/retryqueue, driven by the engine.
package fetcher

import (
	"context"
	"net/http"
	"time"

	"github.com/linkinator-go/linkinator/pkg/failure"
)

// Fetcher issues HTTP requests on behalf of the engine.
type Fetcher struct {
	client *http.Client
}

// New returns a Fetcher backed by a client with no built-in per-request
// timeout — Attempt applies the timeout via context, since the spec
// requires a per-request (not per-client) deadline.
func New() *Fetcher {
	return &Fetcher{client: &http.Client{}}
}

// Attempt performs one HEAD-then-maybe-GET fetch against req.URL. A
// HEAD response never carries a body (the server omits it, and the
// client drops whatever bytes it sent anyway), so a request that
// needs its body extracted skips straight to GET rather than wasting
// a round trip on a HEAD it would have to discard.
func (f *Fetcher) Attempt(ctx context.Context, req Request) (Result, failure.ClassifiedError) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()

	method := req.Method
	if method == "" {
		method = http.MethodHead
		if req.ShouldExtract {
			method = http.MethodGet
		}
	}

	resp, err := f.do(ctx, method, req)
	if err != nil {
		return Result{}, classifyTransportError(err)
	}

	if method == http.MethodHead {
		resp.Body.Close()
		if needsGETFallback(resp.StatusCode) {
			resp, err = f.do(ctx, http.MethodGet, req)
			if err != nil {
				return Result{}, classifyTransportError(err)
			}
			method = http.MethodGet
		}
	}
	defer resp.Body.Close()

	headers := captureHeaders(resp.Header)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return Result{}, &Error{Cause: CauseTooManyRequests, Status: resp.StatusCode, Headers: headers, Retryable: true}
	case resp.StatusCode >= 500:
		return Result{}, &Error{Cause: CauseServerError, Status: resp.StatusCode, Headers: headers, Retryable: true}
	case resp.StatusCode >= 400:
		return Result{}, &Error{Cause: CauseClientError, Status: resp.StatusCode, Headers: headers, Retryable: false}
	}

	if req.ShouldExtract && req.OnBody != nil {
		if err := req.OnBody(headers, resp.Body); err != nil {
			return Result{}, &Error{Cause: CauseReadBody, Status: resp.StatusCode, Headers: headers, Retryable: false, wrapped: err}
		}
	}

	return Result{
		StatusCode: resp.StatusCode,
		Method:     method,
		Headers:    headers,
		Duration:   time.Since(start),
	}, nil
}

func (f *Fetcher) do(ctx context.Context, method string, req Request) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", req.UserAgent)
	for k, v := range req.ExtraHeaders {
		httpReq.Header.Set(k, v)
	}
	return f.client.Do(httpReq)
}

// needsGETFallback reports whether a HEAD response's status requires
// reissuing the request as GET (spec §4.4 step 2).
func needsGETFallback(status int) bool {
	switch status {
	case http.StatusMethodNotAllowed, http.StatusNotImplemented, http.StatusNotFound:
		return true
	default:
		return false
	}
}

func captureHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func classifyTransportError(err error) *Error {
	if isTimeout(err) {
		return &Error{Cause: CauseTimeout, Retryable: true, wrapped: err}
	}
	return &Error{Cause: CauseNetworkFailure, Retryable: true, wrapped: err}
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	if te, ok := err.(timeouter); ok {
		return te.Timeout()
	}
	return err == context.DeadlineExceeded
}
