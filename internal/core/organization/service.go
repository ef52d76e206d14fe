package organization

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は組織に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は組織ユースケースの公開インターフェースです。
type UseCase interface {
	CreateOrganization(ctx context.Context, in CreateOrganizationInput) (*Organization, error)
	GetOrganization(ctx context.Context, in GetOrganizationInput) (*Organization, error)
	AuthenticateByToken(ctx context.Context, token string) (*Organization, error)
	UpdateProviderSettings(ctx context.Context, in UpdateProviderSettingsInput) (*Organization, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateOrganizationInput は組織作成時の入力です。
type CreateOrganizationInput struct {
	Name string
}

// GetOrganizationInput は組織取得時の入力です。
type GetOrganizationInput struct {
	ID string
}

// UpdateProviderSettingsInput はプロバイダー設定更新時の入力です。
// Kind が ProviderNone の場合は接続解除としてすべての設定を消去します。
type UpdateProviderSettingsInput struct {
	OrganizationID string
	Kind           ProviderKind
	Subdomain      string
	Domain         string
	AccessToken    string
	RefreshToken   string
}

// CreateOrganization は新しい組織を作成し、API トークンを発行します。
func (s *Service) CreateOrganization(ctx context.Context, in CreateOrganizationInput) (*Organization, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	var created *Organization
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		org := &Organization{
			ID:        uuid.NewString(),
			Name:      name,
			APIToken:  uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
		}

		result, err := s.repo.Create(txCtx, org)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GetOrganization は組織を取得します。
func (s *Service) GetOrganization(ctx context.Context, in GetOrganizationInput) (*Organization, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, ErrInvalidID
	}

	var result *Organization
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// AuthenticateByToken は API トークンから組織を解決します。
func (s *Service) AuthenticateByToken(ctx context.Context, token string) (*Organization, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, ErrInvalidAPIToken
	}

	var result *Organization
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByAPIToken(txCtx, trimmed)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateProviderSettings はプロバイダー接続設定を検証して保存します。
func (s *Service) UpdateProviderSettings(ctx context.Context, in UpdateProviderSettingsInput) (*Organization, error) {
	if strings.TrimSpace(in.OrganizationID) == "" {
		return nil, ErrInvalidID
	}

	settings, err := normalizeProviderSettings(in)
	if err != nil {
		return nil, err
	}

	var updated *Organization
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.OrganizationID)
		if err != nil {
			return err
		}

		existing.Provider = settings
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

func normalizeProviderSettings(in UpdateProviderSettingsInput) (ProviderSettings, error) {
	settings := ProviderSettings{
		Kind:         in.Kind,
		Subdomain:    strings.ToLower(strings.TrimSpace(in.Subdomain)),
		Domain:       strings.ToLower(strings.TrimSpace(in.Domain)),
		AccessToken:  strings.TrimSpace(in.AccessToken),
		RefreshToken: strings.TrimSpace(in.RefreshToken),
	}

	switch settings.Kind {
	case ProviderNone:
		return ProviderSettings{}, nil
	case ProviderHousecallPro:
		if settings.AccessToken == "" {
			return ProviderSettings{}, ErrMissingProviderTokens
		}
		return settings, nil
	case ProviderJobber:
		if settings.AccessToken == "" {
			return ProviderSettings{}, ErrMissingProviderTokens
		}
		if settings.Subdomain == "" || settings.Domain == "" {
			return ProviderSettings{}, ErrMissingProviderTenant
		}
		return settings, nil
	default:
		return ProviderSettings{}, ErrInvalidProviderKind
	}
}
