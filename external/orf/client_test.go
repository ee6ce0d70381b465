package orf

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/nation-points/internal/platform/logging"
	"github.com/riskibarqy/nation-points/internal/platform/resilience"
	"github.com/riskibarqy/nation-points/internal/usecase"
)

const feedDoc = `{"Event": {"Id": 123}, "Results": [{"RankingFinal": "1", "NationCC3": "AUT"}]}`

func newTestClient(t *testing.T, server *httptest.Server, mutate func(*ClientConfig)) *Client {
	t.Helper()
	cfg := ClientConfig{
		HTTPClient:   server.Client(),
		BaseURL:      server.URL + "/alpine-api/api/",
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestClient_FetchEvent_SendsBrowserHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/alpine-api/api/sportevents/123" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("detailtype"); got != "end" {
			t.Errorf("detailtype=%q want=end", got)
		}
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("unexpected user agent %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json,text/plain,*/*" {
			t.Errorf("unexpected accept header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedDoc))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	doc, err := client.FetchEvent(context.Background(), "123")
	if err != nil {
		t.Fatalf("fetch event: %v", err)
	}
	results, ok := doc.Get("Results")
	if !ok {
		t.Fatalf("expected Results in document")
	}
	if items, _ := results.AsArray(); len(items) != 1 {
		t.Fatalf("expected one result, got %d", len(items))
	}
	if got := client.EventURL("123"); got != server.URL+"/alpine-api/api/sportevents/123?detailtype=end" {
		t.Fatalf("unexpected event url %q", got)
	}
}

func TestClient_FetchEvent_RejectsMalformedID(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	for _, id := range []string{"", "12/34", "abc", "../1"} {
		if _, err := client.FetchEvent(context.Background(), id); !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("id %q: expected ErrInvalidInput, got %v", id, err)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("feed must not be called for malformed ids")
	}
}

func TestClient_FetchEvent_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "upstream busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(feedDoc))
	}))
	defer server.Close()

	client := newTestClient(t, server, func(cfg *ClientConfig) { cfg.MaxRetries = 2 })
	if _, err := client.FetchEvent(context.Background(), "123"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", hits.Load())
	}
}

func TestClient_FetchEvent_NoRetryByDefault(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	_, err := client.FetchEvent(context.Background(), "123")
	if !errors.Is(err, usecase.ErrTransportFailure) {
		t.Fatalf("expected ErrTransportFailure, got %v", err)
	}
	if !strings.Contains(err.Error(), "status=500") {
		t.Fatalf("expected status in error, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", hits.Load())
	}
}

func TestClient_FetchEvent_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newTestClient(t, server, func(cfg *ClientConfig) { cfg.MaxRetries = 3 })
	if _, err := client.FetchEvent(context.Background(), "404"); !errors.Is(err, usecase.ErrTransportFailure) {
		t.Fatalf("expected ErrTransportFailure, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("404 must not be retried, got %d attempts", hits.Load())
	}
}

func TestClient_FetchEvent_MalformedJSON(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"html page":         `<html>maintenance</html>`,
		"leading zero rank": `{"Results": [{"RankingFinal": 01, "NationCC3": "AUT"}]}`,
		"lone minus":        `{"Results": [{"RankingFinal": -, "NationCC3": "AUT"}]}`,
		"dangling fraction": `{"Results": [{"RankingFinal": 1., "NationCC3": "AUT"}]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			client := newTestClient(t, server, nil)
			if _, err := client.FetchEvent(context.Background(), "123"); !errors.Is(err, usecase.ErrTransportFailure) {
				t.Fatalf("expected ErrTransportFailure, got %v", err)
			}
		})
	}
}

func TestClient_FetchEvent_BodyLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Results": [], "padding": "` + strings.Repeat("x", 512) + `"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, func(cfg *ClientConfig) { cfg.MaxBodyBytes = 128 })
	_, err := client.FetchEvent(context.Background(), "123")
	if !errors.Is(err, usecase.ErrTransportFailure) || !strings.Contains(err.Error(), "exceeds 128 bytes") {
		t.Fatalf("expected body limit failure, got %v", err)
	}
}

func TestClient_FetchEvent_CircuitOpens(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Hour,
			HalfOpenMaxReq:   1,
		}
	})

	if _, err := client.FetchEvent(context.Background(), "1"); errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("first failure must reach the feed, got %v", err)
	}
	if client.CircuitState() != resilience.CircuitStateOpen {
		t.Fatalf("expected open circuit, got %s", client.CircuitState())
	}

	_, err := client.FetchEvent(context.Background(), "2")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) || !errors.Is(err, usecase.ErrTransportFailure) {
		t.Fatalf("expected unavailable transport failure, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("open circuit must short-circuit, got %d hits", hits.Load())
	}
}

func TestClient_FetchEvent_RateLimited(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(feedDoc))
	}))
	defer server.Close()

	client := newTestClient(t, server, func(cfg *ClientConfig) {
		cfg.RateLimit = 0.001
		cfg.RateBurst = 1
	})

	if _, err := client.FetchEvent(context.Background(), "1"); err != nil {
		t.Fatalf("first request should use the burst: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.FetchEvent(ctx, "2"); !errors.Is(err, usecase.ErrTransportFailure) {
		t.Fatalf("expected rate limited transport failure, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one request to reach the feed, got %d", hits.Load())
	}
}

func TestClient_FetchEvent_SharesConcurrentRequests(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(entered)
		}
		<-release
		_, _ = w.Write([]byte(feedDoc))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = client.FetchEvent(context.Background(), "555")
	}()
	<-entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[1] = client.FetchEvent(context.Background(), "555")
	}()
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected concurrent identical requests to share one call, got %d", hits.Load())
	}
}
