package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/ogurasousui/roster-sync/internal/adapters/provider/housecallpro"
	"github.com/ogurasousui/roster-sync/internal/adapters/provider/jobber"
	"github.com/ogurasousui/roster-sync/internal/core/organization"
	"github.com/ogurasousui/roster-sync/internal/core/roster"
)

// Config はプロバイダー接続先の構成です。BaseURL はサンドボックスやテストで
// 上書きするためのもので、空の場合は各クライアントの既定値が使われます。
type Config struct {
	HousecallProBaseURL string
	JobberBaseURL       string
}

// Registry は組織のプロバイダー設定から roster.EmployeeSource を構築します。
// roster.SourceResolver の実装です。
type Registry struct {
	orgs       organization.Repository
	httpClient *http.Client
	cfg        Config
}

// NewRegistry は Registry を生成します。
func NewRegistry(orgs organization.Repository, httpClient *http.Client, cfg Config) *Registry {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Registry{orgs: orgs, httpClient: httpClient, cfg: cfg}
}

// SourceFor は組織に設定されたプロバイダーのクライアントを返します。
func (r *Registry) SourceFor(ctx context.Context, organizationID string) (roster.EmployeeSource, error) {
	org, err := r.orgs.FindByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if !org.ProviderConfigured() {
		return nil, organization.ErrProviderNotConfigured
	}

	switch org.Provider.Kind {
	case organization.ProviderHousecallPro:
		return housecallpro.New(housecallpro.Config{
			BaseURL:      r.cfg.HousecallProBaseURL,
			AccessToken:  org.Provider.AccessToken,
			RefreshToken: org.Provider.RefreshToken,
			HTTPClient:   r.httpClient,
		}), nil
	case organization.ProviderJobber:
		return jobber.New(jobber.Config{
			BaseURL:    r.cfg.JobberBaseURL,
			Subdomain:  org.Provider.Subdomain,
			Domain:     org.Provider.Domain,
			APIKey:     org.Provider.AccessToken,
			HTTPClient: r.httpClient,
		}), nil
	default:
		return nil, organization.ErrInvalidProviderKind
	}
}
