package roster

import "errors"

var (
	ErrInvalidOrganizationID         = errors.New("roster: invalid organization id")
	ErrInvalidEmployeeID             = errors.New("roster: invalid employee id")
	ErrInvalidProviderEmployeeID     = errors.New("roster: invalid provider employee id")
	ErrEmployeeNotFound              = errors.New("roster: employee not found")
	ErrEmployeeRemoved               = errors.New("roster: employee removed from provider roster")
	ErrProviderEmployeeAlreadyExists = errors.New("roster: provider employee already exists")
	ErrSyncFailed                    = errors.New("roster: sync failed")
)
