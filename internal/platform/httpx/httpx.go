package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPError は 2xx 以外の応答をエラーとして運びます。呼び出し側が
// ステータスに応じた分岐(トークン更新など)を行えるよう本文を保持します。
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("httpx: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, bodySnippet(e.Body, 300))
}

func bodySnippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// RetryConfig はリトライ挙動を制御します。
type RetryConfig struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	RetryStatuses map[int]bool
}

// DefaultRetryConfig は一時的な失敗(5xx の一部と 429)だけをリトライする
// 既定値を返します。
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		RetryStatuses: map[int]bool{
			http.StatusTooManyRequests:    true,
			http.StatusRequestTimeout:     true,
			http.StatusBadGateway:         true,
			http.StatusServiceUnavailable: true,
			http.StatusGatewayTimeout:     true,
		},
	}
}

// DoWithRetry は buildReq で構築したリクエストをリトライ付きで実行します。
// リクエスト本文は試行ごとに作り直されるため、buildReq は毎回新しい
// *http.Request を返す必要があります。本文は常に読み切って返します。
func DoWithRetry(ctx context.Context, client *http.Client, buildReq func(context.Context) (*http.Request, error), cfg RetryConfig) (*http.Response, []byte, error) {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 10 * time.Second
	}
	if cfg.RetryStatuses == nil {
		cfg.RetryStatuses = DefaultRetryConfig().RetryStatuses
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		req, err := buildReq(ctx)
		if err != nil {
			return nil, nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			if !isRetryableNetErr(err) || attempt == cfg.MaxAttempts {
				return nil, nil, err
			}
			lastErr = err
			if err := sleepBackoff(ctx, attempt, cfg.BaseDelay, cfg.MaxDelay, 0); err != nil {
				return nil, nil, err
			}
			continue
		}

		body, readErr := readAndClose(resp.Body)
		if readErr != nil {
			return resp, body, readErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, body, nil
		}

		herr := &HTTPError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       body,
		}

		if !cfg.RetryStatuses[resp.StatusCode] || attempt == cfg.MaxAttempts {
			return resp, body, herr
		}

		lastErr = herr
		if err := sleepBackoff(ctx, attempt, cfg.BaseDelay, cfg.MaxDelay, parseRetryAfter(resp)); err != nil {
			return nil, nil, err
		}
	}

	return nil, nil, lastErr
}

// readAndClose は本文を読み切ってクローズします。接続を再利用できるよう
// エラー応答でも必ず呼ばれます。
func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}

func isRetryableNetErr(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

// parseRetryAfter は Retry-After ヘッダを秒数または HTTP 日付として解釈します。
func parseRetryAfter(resp *http.Response) time.Duration {
	raw := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if raw == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(raw); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}

	return 0
}

func sleepBackoff(ctx context.Context, attempt int, base, max, retryAfter time.Duration) error {
	delay := base << (attempt - 1)
	if delay > max {
		delay = max
	}
	// 同時リトライの集中を避けるため最大 20% のジッタを加える。
	delay += time.Duration(rand.Int64N(int64(delay)/5 + 1))
	if retryAfter > delay {
		delay = retryAfter
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
