package fetcher_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/linkinator-go/linkinator/internal/fetcher"
	"github.com/stretchr/testify/require"
)

func TestAttempt_HeadSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := fetcher.New()
	res, err := f.Attempt(context.Background(), fetcher.Request{URL: srv.URL, UserAgent: "test"})
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, http.MethodHead, res.Method)
}

func TestAttempt_FallsBackToGETOn405(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := fetcher.New()
	res, err := f.Attempt(context.Background(), fetcher.Request{URL: srv.URL, UserAgent: "test"})
	require.Nil(t, err)
	require.Equal(t, http.MethodGet, res.Method)
	require.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
}

func TestAttempt_FallsBackOn404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := fetcher.New()
	res, err := f.Attempt(context.Background(), fetcher.Request{URL: srv.URL, UserAgent: "test"})
	require.Nil(t, err)
	require.Equal(t, http.MethodGet, res.Method)
}

func TestAttempt_429IsRetryableWithHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := fetcher.New()
	_, err := f.Attempt(context.Background(), fetcher.Request{URL: srv.URL, UserAgent: "test"})
	require.NotNil(t, err)
	fe, ok := err.(*fetcher.Error)
	require.True(t, ok)
	require.True(t, fe.Retryable)
	require.Equal(t, fetcher.CauseTooManyRequests, fe.Cause)
	require.Equal(t, "30", fe.Headers["Retry-After"])
}

func TestAttempt_5xxIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := fetcher.New()
	_, err := f.Attempt(context.Background(), fetcher.Request{URL: srv.URL, UserAgent: "test"})
	require.NotNil(t, err)
	fe := err.(*fetcher.Error)
	require.True(t, fe.Retryable)
	require.Equal(t, fetcher.CauseServerError, fe.Cause)
}

func TestAttempt_403IsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := fetcher.New()
	_, err := f.Attempt(context.Background(), fetcher.Request{URL: srv.URL, UserAgent: "test"})
	require.NotNil(t, err)
	fe := err.(*fetcher.Error)
	require.False(t, fe.Retryable)
	require.Equal(t, fetcher.CauseClientError, fe.Cause)
}

func TestAttempt_StreamsHTMLBodyWhenShouldExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<a href="/x">x</a>`))
	}))
	defer srv.Close()

	var captured string
	var capturedHeaders map[string]string
	f := fetcher.New()
	_, err := f.Attempt(context.Background(), fetcher.Request{
		URL:           srv.URL,
		UserAgent:     "test",
		ShouldExtract: true,
		OnBody: func(headers map[string]string, body io.Reader) error {
			capturedHeaders = headers
			b, readErr := io.ReadAll(body)
			captured = string(b)
			return readErr
		},
	})
	require.Nil(t, err)
	require.Equal(t, `<a href="/x">x</a>`, captured)
	require.Equal(t, "text/html", capturedHeaders["Content-Type"])
}

func TestAttempt_DoesNotStreamWhenShouldExtractFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<a href="/x">x</a>`))
	}))
	defer srv.Close()

	called := false
	f := fetcher.New()
	_, err := f.Attempt(context.Background(), fetcher.Request{
		URL:           srv.URL,
		UserAgent:     "test",
		ShouldExtract: false,
		OnBody:        func(headers map[string]string, body io.Reader) error { called = true; return nil },
	})
	require.Nil(t, err)
	require.False(t, called)
}

func TestAttempt_TimeoutIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := fetcher.New()
	_, err := f.Attempt(context.Background(), fetcher.Request{URL: srv.URL, UserAgent: "test", Timeout: 5 * time.Millisecond})
	require.NotNil(t, err)
	fe := err.(*fetcher.Error)
	require.True(t, fe.Retryable)
}
