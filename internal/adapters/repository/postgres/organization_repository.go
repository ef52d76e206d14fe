package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/roster-sync/internal/core/organization"
	pgdb "github.com/ogurasousui/roster-sync/internal/platform/db/postgres"
)

const organizationUniqueViolationCode = "23505"

// OrganizationRepository は PostgreSQL を利用した組織永続化の実装です。
type OrganizationRepository struct {
	pool pgdb.Queryer
}

// NewOrganizationRepository は OrganizationRepository を生成します。
func NewOrganizationRepository(pool pgdb.Queryer) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

// Create は組織を新規作成します。
func (r *OrganizationRepository) Create(ctx context.Context, o *organization.Organization) (*organization.Organization, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO organizations (id, name, api_token, provider_kind, provider_subdomain, provider_domain, provider_access_token, provider_refresh_token, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, name, api_token, provider_kind, provider_subdomain, provider_domain, provider_access_token, provider_refresh_token, created_at, updated_at
    `,
		o.ID,
		o.Name,
		o.APIToken,
		string(o.Provider.Kind),
		emptyToNull(o.Provider.Subdomain),
		emptyToNull(o.Provider.Domain),
		emptyToNull(o.Provider.AccessToken),
		emptyToNull(o.Provider.RefreshToken),
		o.CreatedAt,
		o.UpdatedAt,
	)

	created, err := scanOrganization(row)
	if err != nil {
		return nil, translateOrganizationPgError(err)
	}
	return created, nil
}

// Update は組織情報を更新します。
func (r *OrganizationRepository) Update(ctx context.Context, o *organization.Organization) (*organization.Organization, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE organizations
           SET name = $1,
               api_token = $2,
               provider_kind = $3,
               provider_subdomain = $4,
               provider_domain = $5,
               provider_access_token = $6,
               provider_refresh_token = $7,
               updated_at = $8
         WHERE id = $9
        RETURNING id, name, api_token, provider_kind, provider_subdomain, provider_domain, provider_access_token, provider_refresh_token, created_at, updated_at
    `,
		o.Name,
		o.APIToken,
		string(o.Provider.Kind),
		emptyToNull(o.Provider.Subdomain),
		emptyToNull(o.Provider.Domain),
		emptyToNull(o.Provider.AccessToken),
		emptyToNull(o.Provider.RefreshToken),
		o.UpdatedAt,
		o.ID,
	)

	updated, err := scanOrganization(row)
	if err != nil {
		return nil, translateOrganizationPgError(err)
	}
	return updated, nil
}

// FindByID は ID で組織を取得します。
func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*organization.Organization, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, api_token, provider_kind, provider_subdomain, provider_domain, provider_access_token, provider_refresh_token, created_at, updated_at
          FROM organizations
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanOrganization(row)
	if err != nil {
		return nil, translateOrganizationPgError(err)
	}
	return found, nil
}

// FindByAPIToken は API トークンで組織を取得します。
func (r *OrganizationRepository) FindByAPIToken(ctx context.Context, token string) (*organization.Organization, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, api_token, provider_kind, provider_subdomain, provider_domain, provider_access_token, provider_refresh_token, created_at, updated_at
          FROM organizations
         WHERE api_token = $1
         LIMIT 1
    `, token)

	found, err := scanOrganization(row)
	if err != nil {
		return nil, translateOrganizationPgError(err)
	}
	return found, nil
}

func scanOrganization(row pgx.Row) (*organization.Organization, error) {
	var (
		id           string
		name         string
		apiToken     string
		kind         string
		subdomain    sql.NullString
		domain       sql.NullString
		accessToken  sql.NullString
		refreshToken sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(
		&id,
		&name,
		&apiToken,
		&kind,
		&subdomain,
		&domain,
		&accessToken,
		&refreshToken,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, organization.ErrOrganizationNotFound
		}
		return nil, err
	}

	return &organization.Organization{
		ID:       id,
		Name:     name,
		APIToken: apiToken,
		Provider: organization.ProviderSettings{
			Kind:         organization.ProviderKind(kind),
			Subdomain:    subdomain.String,
			Domain:       domain.String,
			AccessToken:  accessToken.String,
			RefreshToken: refreshToken.String,
		},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func translateOrganizationPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return organization.ErrOrganizationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == organizationUniqueViolationCode {
		return organization.ErrAPITokenAlreadyExists
	}

	return err
}

func emptyToNull(value string) any {
	if value == "" {
		return nil
	}
	return value
}
