package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"clashsub/internal/config"
	"clashsub/internal/provider"
)

func TestHTTPFetcherReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "clashsub-test" {
			t.Errorf("unexpected user agent %q", got)
		}
		_, _ = w.Write([]byte("proxies:\n  - name: a\n"))
	}))
	defer server.Close()

	fetcher := provider.NewHTTPFetcher(time.Second, provider.WithUserAgent("clashsub-test"))
	body, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(body) != "proxies:\n  - name: a\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestHTTPFetcherNon2xxIsStatusError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := provider.NewHTTPFetcher(time.Second).Fetch(context.Background(), server.URL)
	var statusErr *provider.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound || statusErr.Body != "gone" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestHTTPFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := provider.NewHTTPFetcher(50 * time.Millisecond).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestHTTPFetcherEnforcesMaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	_, err := provider.NewHTTPFetcher(time.Second, provider.WithMaxBytes(32)).Fetch(context.Background(), server.URL)
	if !errors.Is(err, provider.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	body, err := provider.NewHTTPFetcher(time.Second, provider.WithMaxBytes(64)).Fetch(context.Background(), server.URL)
	if err != nil || len(body) != 64 {
		t.Fatalf("expected body at the cap to pass, got %d bytes, err %v", len(body), err)
	}
}

func TestNewFromConfigUsesFetchSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Fetch.UserAgent = "from-config"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
	}))
	defer server.Close()

	body, err := provider.NewFromConfig(&cfg).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(body) != "from-config" {
		t.Fatalf("unexpected user agent echo %q", body)
	}
}
