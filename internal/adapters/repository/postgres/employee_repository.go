package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/roster-sync/internal/core/roster"
	pgdb "github.com/ogurasousui/roster-sync/internal/platform/db/postgres"
)

const (
	employeeUniqueViolationCode     = "23505"
	employeeForeignKeyViolationCode = "23503"
)

// EmployeeRepository は PostgreSQL を利用したロスター永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create はロスターレコードを新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *roster.Employee) (*roster.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO roster_employees (id, organization_id, provider_employee_id, name, email, enabled, removed, last_sync_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, organization_id, provider_employee_id, name, email, enabled, removed, last_sync_at, created_at, updated_at
    `,
		e.ID,
		e.OrganizationID,
		e.ProviderEmployeeID,
		e.Name,
		nullableString(e.Email),
		e.Enabled,
		e.Removed,
		e.LastSyncAt,
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanRosterEmployee(row)
	if err != nil {
		return nil, translateRosterPgError(err)
	}
	return created, nil
}

// Update はロスターレコードを更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *roster.Employee) (*roster.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE roster_employees
           SET name = $1,
               email = $2,
               enabled = $3,
               removed = $4,
               last_sync_at = $5,
               updated_at = $6
         WHERE id = $7
        RETURNING id, organization_id, provider_employee_id, name, email, enabled, removed, last_sync_at, created_at, updated_at
    `,
		e.Name,
		nullableString(e.Email),
		e.Enabled,
		e.Removed,
		e.LastSyncAt,
		e.UpdatedAt,
		e.ID,
	)

	updated, err := scanRosterEmployee(row)
	if err != nil {
		return nil, translateRosterPgError(err)
	}
	return updated, nil
}

// FindByID は ID でロスターレコードを取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*roster.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, organization_id, provider_employee_id, name, email, enabled, removed, last_sync_at, created_at, updated_at
          FROM roster_employees
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanRosterEmployee(row)
	if err != nil {
		return nil, translateRosterPgError(err)
	}
	return found, nil
}

// FindByOrganizationAndProviderID は組織 ID とプロバイダー従業員 ID で検索します。
func (r *EmployeeRepository) FindByOrganizationAndProviderID(ctx context.Context, organizationID string, providerEmployeeID int64) (*roster.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, organization_id, provider_employee_id, name, email, enabled, removed, last_sync_at, created_at, updated_at
          FROM roster_employees
         WHERE organization_id = $1 AND provider_employee_id = $2
         LIMIT 1
    `, organizationID, providerEmployeeID)

	found, err := scanRosterEmployee(row)
	if err != nil {
		return nil, translateRosterPgError(err)
	}
	return found, nil
}

// ListByOrganization は組織のロスターレコードを除籍済みも含めてすべて返します。
func (r *EmployeeRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*roster.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, organization_id, provider_employee_id, name, email, enabled, removed, last_sync_at, created_at, updated_at
          FROM roster_employees
         WHERE organization_id = $1
         ORDER BY provider_employee_id ASC
    `, organizationID)
	if err != nil {
		return nil, translateRosterPgError(err)
	}
	defer rows.Close()

	var employees []*roster.Employee
	for rows.Next() {
		emp, err := scanRosterEmployee(rows)
		if err != nil {
			return nil, translateRosterPgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateRosterPgError(err)
	}

	return employees, nil
}

func scanRosterEmployee(row pgx.Row) (*roster.Employee, error) {
	var (
		id                 string
		organizationID     string
		providerEmployeeID int64
		name               string
		email              sql.NullString
		enabled            bool
		removed            bool
		lastSyncAt         time.Time
		createdAt          time.Time
		updatedAt          time.Time
	)

	if err := row.Scan(
		&id,
		&organizationID,
		&providerEmployeeID,
		&name,
		&email,
		&enabled,
		&removed,
		&lastSyncAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, roster.ErrEmployeeNotFound
		}
		return nil, err
	}

	var emailPtr *string
	if email.Valid {
		value := email.String
		emailPtr = &value
	}

	return &roster.Employee{
		ID:                 id,
		OrganizationID:     organizationID,
		ProviderEmployeeID: providerEmployeeID,
		Name:               name,
		Email:              emailPtr,
		Enabled:            enabled,
		Removed:            removed,
		LastSyncAt:         lastSyncAt,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}, nil
}

func translateRosterPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return roster.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case employeeUniqueViolationCode:
			return roster.ErrProviderEmployeeAlreadyExists
		case employeeForeignKeyViolationCode:
			return roster.ErrInvalidOrganizationID
		}
	}

	return err
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
