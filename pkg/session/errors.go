package session

import "errors"

var (
	// ErrNoSession indicates no session is persisted.
	ErrNoSession = errors.New("session.not_found")

	// ErrMissingToken indicates a session without a bearer token.
	ErrMissingToken = errors.New("session.missing_token")

	// ErrInvalidKind indicates an unknown principal kind discriminator.
	ErrInvalidKind = errors.New("session.invalid_kind")

	// ErrTenantIDRequired indicates a tenant session without a tenant id.
	ErrTenantIDRequired = errors.New("session.tenant_id_required")

	// ErrTenantIDForbidden indicates a tenant id on a central session.
	ErrTenantIDForbidden = errors.New("session.tenant_id_forbidden")

	// ErrStoreFailure wraps storage errors from the underlying key-value store.
	ErrStoreFailure = errors.New("session.store_failure")
)
