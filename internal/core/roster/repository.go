package roster

import "context"

// Repository はロスターレコード永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByOrganizationAndProviderID(ctx context.Context, organizationID string, providerEmployeeID int64) (*Employee, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*Employee, error)
}
