package jobber

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ogurasousui/roster-sync/internal/core/roster"
	"github.com/ogurasousui/roster-sync/internal/platform/httpx"
)

// Config は Jobber クライアントの構成です。BaseURL が空の場合、テナントの
// サブドメインとドメインから接続先を組み立てます。
type Config struct {
	BaseURL    string
	Subdomain  string
	Domain     string
	APIKey     string
	HTTPClient *http.Client
}

// Client は Jobber の従業員 API クライアントです。
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	retry   httpx.RetryConfig
}

// New は Client を生成します。
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.%s", cfg.Subdomain, cfg.Domain)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		http:    httpClient,
		retry:   httpx.DefaultRetryConfig(),
	}
}

type employeesResponse struct {
	Employees []apiEmployee `json:"employees"`
}

type apiEmployee struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Archived bool    `json:"archived"`
}

// FetchEmployees は現在の従業員ロスターを返します。アーカイブ済みの従業員は
// プロバイダー側で除籍済みとして扱い、スナップショットに含めません。
func (c *Client) FetchEmployees(ctx context.Context) ([]roster.ProviderEmployee, error) {
	_, body, err := httpx.DoWithRetry(ctx, c.http, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/employees", nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)
		return req, nil
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("jobber: fetch employees: %w", err)
	}

	var result employeesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("jobber: decode response: %w", err)
	}

	employees := make([]roster.ProviderEmployee, 0, len(result.Employees))
	for _, emp := range result.Employees {
		if emp.Archived {
			continue
		}
		employees = append(employees, roster.ProviderEmployee{
			ID:    emp.ID,
			Name:  strings.TrimSpace(emp.Name),
			Email: emp.Email,
		})
	}

	return employees, nil
}
