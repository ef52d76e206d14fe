package organization

import "errors"

var (
	ErrInvalidID             = errors.New("organization: invalid id")
	ErrInvalidName           = errors.New("organization: invalid name")
	ErrInvalidAPIToken       = errors.New("organization: invalid api token")
	ErrInvalidProviderKind   = errors.New("organization: invalid provider kind")
	ErrMissingProviderTokens = errors.New("organization: provider credentials are missing")
	ErrMissingProviderTenant = errors.New("organization: provider tenant configuration is missing")
	ErrOrganizationNotFound  = errors.New("organization: not found")
	ErrProviderNotConfigured = errors.New("organization: provider not configured")
	ErrAPITokenAlreadyExists = errors.New("organization: api token already exists")
)
