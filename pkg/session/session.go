package session

import (
	"fmt"

	"github.com/nasiyapay/consolekit/pkg/permissions"
)

// Kind discriminates the two disjoint principal kinds of the console.
type Kind string

const (
	// KindCentral is the BNPL operator's own staff.
	KindCentral Kind = "central"

	// KindTenant is an employee of a merchant tenant.
	KindTenant Kind = "tenant"
)

// Session is the persisted credential bundle for one signed-in principal.
// Construct it with NewCentral or NewTenant so the kind/tenant-id shape
// is enforced at creation.
type Session struct {
	Token       string
	Kind        Kind
	TenantID    string
	Permissions permissions.Groups
}

// NewCentral creates a session for a central operator. Central principals
// carry no tenant scope.
func NewCentral(token string, perms permissions.Groups) (Session, error) {
	if token == "" {
		return Session{}, ErrMissingToken
	}
	if perms == nil {
		perms = permissions.Groups{}
	}
	return Session{Token: token, Kind: KindCentral, Permissions: perms}, nil
}

// NewTenant creates a session for a tenant employee scoped to tenantID.
func NewTenant(token, tenantID string, perms permissions.Groups) (Session, error) {
	if token == "" {
		return Session{}, ErrMissingToken
	}
	if tenantID == "" {
		return Session{}, ErrTenantIDRequired
	}
	if perms == nil {
		perms = permissions.Groups{}
	}
	return Session{Token: token, Kind: KindTenant, TenantID: tenantID, Permissions: perms}, nil
}

// Validate checks the kind/tenant-id shape. Sessions built through the
// constructors always pass; loading persisted state re-checks because
// the store may have been written by an older console build.
func (s Session) Validate() error {
	if s.Token == "" {
		return ErrMissingToken
	}
	switch s.Kind {
	case KindCentral:
		if s.TenantID != "" {
			return ErrTenantIDForbidden
		}
	case KindTenant:
		if s.TenantID == "" {
			return ErrTenantIDRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, s.Kind)
	}
	return nil
}

// IsTenant reports whether the session belongs to a tenant employee.
func (s Session) IsTenant() bool {
	return s.Kind == KindTenant
}
