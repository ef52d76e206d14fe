package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/roster-sync/internal/core/organization"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestScanOrganization_Success(t *testing.T) {
	t.Parallel()

	createdAt := time.Now().UTC()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 10 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "org-1"
		*(dest[1].(*string)) = "Acme Cleaning"
		*(dest[2].(*string)) = "token-1"
		*(dest[3].(*string)) = string(organization.ProviderJobber)

		subdomain := dest[4].(*sql.NullString)
		subdomain.String = "acme"
		subdomain.Valid = true

		domain := dest[5].(*sql.NullString)
		domain.String = "getjobber.com"
		domain.Valid = true

		access := dest[6].(*sql.NullString)
		access.String = "access-1"
		access.Valid = true

		*(dest[8].(*time.Time)) = createdAt
		*(dest[9].(*time.Time)) = createdAt
		return nil
	}}

	org, err := scanOrganization(row)
	if err != nil {
		t.Fatalf("scanOrganization returned error: %v", err)
	}

	if org.Provider.Kind != organization.ProviderJobber {
		t.Fatalf("expected jobber provider, got %s", org.Provider.Kind)
	}
	if org.Provider.Subdomain != "acme" || org.Provider.Domain != "getjobber.com" {
		t.Fatalf("unexpected tenant settings: %+v", org.Provider)
	}
	if org.Provider.RefreshToken != "" {
		t.Fatalf("expected empty refresh token, got %s", org.Provider.RefreshToken)
	}
}

func TestScanOrganization_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanOrganization(row)
	if !errors.Is(err, organization.ErrOrganizationNotFound) {
		t.Fatalf("expected ErrOrganizationNotFound, got %v", err)
	}
}

func TestTranslateOrganizationPgError(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: organizationUniqueViolationCode}
	if !errors.Is(translateOrganizationPgError(uniqueErr), organization.ErrAPITokenAlreadyExists) {
		t.Fatalf("expected unique violation to map to ErrAPITokenAlreadyExists")
	}

	other := errors.New("other")
	if translateOrganizationPgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestOrganizationRepository_FindByAPIToken(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewOrganizationRepository(mock)

	query := regexp.QuoteMeta(`
        SELECT id, name, api_token, provider_kind, provider_subdomain, provider_domain, provider_access_token, provider_refresh_token, created_at, updated_at
          FROM organizations
         WHERE api_token = $1
         LIMIT 1
    `)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "name", "api_token", "provider_kind", "provider_subdomain", "provider_domain", "provider_access_token", "provider_refresh_token", "created_at", "updated_at"}).
		AddRow("org-1", "Acme Cleaning", "token-1", string(organization.ProviderHousecallPro), nil, nil, "access-1", "refresh-1", now, now)

	mock.ExpectQuery(query).
		WithArgs("token-1").
		WillReturnRows(rows)

	org, err := repo.FindByAPIToken(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("FindByAPIToken returned error: %v", err)
	}

	if org.ID != "org-1" {
		t.Fatalf("unexpected organization: %+v", org)
	}
	if org.Provider.Kind != organization.ProviderHousecallPro {
		t.Fatalf("expected housecallpro provider, got %s", org.Provider.Kind)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrganizationRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewOrganizationRepository(mock)

	query := regexp.QuoteMeta(`
        SELECT id, name, api_token, provider_kind, provider_subdomain, provider_domain, provider_access_token, provider_refresh_token, created_at, updated_at
          FROM organizations
         WHERE id = $1
         LIMIT 1
    `)

	mock.ExpectQuery(query).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, organization.ErrOrganizationNotFound) {
		t.Fatalf("expected ErrOrganizationNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
