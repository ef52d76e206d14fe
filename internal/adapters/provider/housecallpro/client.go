package housecallpro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ogurasousui/roster-sync/internal/core/roster"
	"github.com/ogurasousui/roster-sync/internal/platform/httpx"
)

const (
	defaultBaseURL = "https://api.housecallpro.com"
	pageSize       = 100
)

// Config は Housecall Pro クライアントの構成です。
type Config struct {
	BaseURL      string
	AccessToken  string
	RefreshToken string
	HTTPClient   *http.Client
}

// Client は Housecall Pro の従業員 API クライアントです。アクセストークンが
// 失効した場合、リフレッシュトークンで 1 度だけ再取得を試みます。
type Client struct {
	baseURL string
	http    *http.Client
	retry   httpx.RetryConfig

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// New は Client を生成します。
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:      baseURL,
		http:         httpClient,
		retry:        httpx.DefaultRetryConfig(),
		accessToken:  cfg.AccessToken,
		refreshToken: cfg.RefreshToken,
	}
}

type employeesPage struct {
	Employees  []apiEmployee `json:"employees"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

type apiEmployee struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// FetchEmployees は全ページを辿って現在の従業員ロスターを返します。
func (c *Client) FetchEmployees(ctx context.Context) ([]roster.ProviderEmployee, error) {
	var all []roster.ProviderEmployee

	for page := 1; ; page++ {
		result, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("housecallpro: fetch employees page %d: %w", page, err)
		}

		for _, emp := range result.Employees {
			all = append(all, roster.ProviderEmployee{
				ID:    emp.ID,
				Name:  strings.TrimSpace(emp.FirstName + " " + emp.LastName),
				Email: emp.Email,
			})
		}

		if len(result.Employees) == 0 || page >= result.TotalPages {
			return all, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, page int) (*employeesPage, error) {
	body, err := c.get(ctx, fmt.Sprintf("/employees?page=%d&page_size=%d", page, pageSize))

	var herr *httpx.HTTPError
	if errors.As(err, &herr) && herr.StatusCode == http.StatusUnauthorized {
		if refreshErr := c.refreshAccessToken(ctx); refreshErr != nil {
			return nil, refreshErr
		}
		body, err = c.get(ctx, fmt.Sprintf("/employees?page=%d&page_size=%d", page, pageSize))
	}
	if err != nil {
		return nil, err
	}

	var result employeesPage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	_, body, err := httpx.DoWithRetry(ctx, c.http, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.currentAccessToken())
		return req, nil
	}, c.retry)
	return body, err
}

// refreshAccessToken は OAuth のリフレッシュフローでトークンを再取得します。
func (c *Client) refreshAccessToken(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := c.refreshToken
	c.mu.Unlock()

	if refreshToken == "" {
		return errors.New("access token rejected and no refresh token available")
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	encoded := form.Encode()

	_, body, err := httpx.DoWithRetry(ctx, c.http, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, c.retry)
	if err != nil {
		return fmt.Errorf("refresh access token: %w", err)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return errors.New("token response did not contain an access token")
	}

	c.mu.Lock()
	c.accessToken = token.AccessToken
	if token.RefreshToken != "" {
		c.refreshToken = token.RefreshToken
	}
	c.mu.Unlock()

	return nil
}

func (c *Client) currentAccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}
