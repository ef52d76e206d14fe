package organization

import "context"

// Repository は組織永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, org *Organization) (*Organization, error)
	Update(ctx context.Context, org *Organization) (*Organization, error)
	FindByID(ctx context.Context, id string) (*Organization, error)
	FindByAPIToken(ctx context.Context, token string) (*Organization, error)
}
