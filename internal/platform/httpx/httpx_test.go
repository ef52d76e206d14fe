package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	return cfg
}

func TestDoWithRetry_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	resp, body, err := DoWithRetry(context.Background(), server.Client(), func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	}, fastRetryConfig())
	if err != nil {
		t.Fatalf("DoWithRetry returned error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if string(body) != `{"ok":true}` {
		t.Fatalf("unexpected body: %s", body)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoWithRetry_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad token"}`))
	}))
	defer server.Close()

	_, body, err := DoWithRetry(context.Background(), server.Client(), func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	}, fastRetryConfig())

	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if herr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 in error, got %d", herr.StatusCode)
	}
	if string(body) != `{"error":"bad token"}` {
		t.Fatalf("expected error body to be returned, got %s", body)
	}
	if attempts != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", attempts)
	}
}

func TestDoWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := fastRetryConfig()
	cfg.MaxAttempts = 2

	_, _, err := DoWithRetry(context.Background(), server.Client(), func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	}, cfg)

	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("expected HTTPError after exhausting retries, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestDoWithRetry_ContextCancelDuringBackoff(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := DoWithRetry(ctx, server.Client(), func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	}, fastRetryConfig())

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline during Retry-After wait, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "3")
	if d := parseRetryAfter(resp); d != 3*time.Second {
		t.Fatalf("expected 3s, got %v", d)
	}

	resp.Header.Set("Retry-After", "not-a-number")
	if d := parseRetryAfter(resp); d != 0 {
		t.Fatalf("expected 0 for malformed header, got %v", d)
	}

	resp.Header.Del("Retry-After")
	if d := parseRetryAfter(resp); d != 0 {
		t.Fatalf("expected 0 for absent header, got %v", d)
	}
}
