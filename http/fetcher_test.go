package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/prodcrawl"
	prodhttp "github.com/fwojciec/prodcrawl/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := prodhttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("sends configured user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		fetcher := prodhttp.NewFetcher(prodhttp.WithUserAgent("TestBot/1.0"))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "TestBot/1.0", gotUA)
	})

	t.Run("sends default user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		_, err := prodhttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, prodcrawl.DefaultUserAgent, gotUA)
	})

	t.Run("decodes declared charset to UTF-8", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			// "Café" in Latin-1
			_, _ = w.Write([]byte{'<', 'p', '>', 'C', 'a', 'f', 0xe9, '<', '/', 'p', '>'})
		}))
		defer server.Close()

		html, err := prodhttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<p>Café</p>", html)
	})

	t.Run("truncates body at max size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		}))
		defer server.Close()

		html, err := prodhttp.NewFetcher(prodhttp.WithMaxBodySize(10)).Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Len(t, html, 10)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := prodhttp.NewFetcher(prodhttp.WithTimeout(10 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, prodcrawl.EUNAVAILABLE, prodcrawl.ErrorCode(err))
	})

	t.Run("returns context error on cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := prodhttp.NewFetcher().Fetch(ctx, server.URL)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("returns unavailable for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := prodhttp.NewFetcher(prodhttp.WithTimeout(100 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")
		require.Error(t, err)
		assert.Equal(t, prodcrawl.EUNAVAILABLE, prodcrawl.ErrorCode(err))
	})

	t.Run("maps status codes to error codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status int
			code   string
		}{
			{status: http.StatusNotFound, code: prodcrawl.ENOTFOUND},
			{status: http.StatusGone, code: prodcrawl.ENOTFOUND},
			{status: http.StatusForbidden, code: prodcrawl.EINVALID},
			{status: http.StatusTooManyRequests, code: prodcrawl.EUNAVAILABLE},
			{status: http.StatusInternalServerError, code: prodcrawl.EUNAVAILABLE},
			{status: http.StatusServiceUnavailable, code: prodcrawl.EUNAVAILABLE},
		}

		for _, tt := range tests {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := prodhttp.NewFetcher().Fetch(context.Background(), server.URL)
			server.Close()

			require.Error(t, err, "status %d", tt.status)
			assert.Equal(t, tt.code, prodcrawl.ErrorCode(err), "status %d", tt.status)
			assert.Contains(t, prodcrawl.ErrorMessage(err), fmt.Sprintf("HTTP %d", tt.status))
		}
	})
}

// Compile-time verification that Fetcher implements prodcrawl.Fetcher
var _ prodcrawl.Fetcher = (*prodhttp.Fetcher)(nil)
