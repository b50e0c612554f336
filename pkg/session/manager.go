package session

import (
	"context"
	"errors"

	"github.com/nasiyapay/consolekit/pkg/kv"
	"github.com/nasiyapay/consolekit/pkg/permissions"
)

// Storage keys. These match the backend's session contract and must not
// change without a migration for existing profiles.
const (
	keyToken       = "token"
	keyPermissions = "permissions"
	keyUserType    = "user_type"
	keyTenantID    = "tenant_id"
)

// Manager persists sessions over an injected key-value store. Inject a
// fake store in tests instead of mocking globals.
type Manager struct {
	store kv.Store
}

// NewManager creates a session manager over the given store.
func NewManager(store kv.Store) *Manager {
	if store == nil {
		panic("session: kv store is required")
	}
	return &Manager{store: store}
}

// Save persists the session. An invalid session shape is rejected before
// anything is written.
func (m *Manager) Save(ctx context.Context, s Session) error {
	if err := s.Validate(); err != nil {
		return err
	}

	encoded, err := permissions.EncodeGroups(s.Permissions)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	if err := m.store.Set(ctx, keyToken, s.Token); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if err := m.store.Set(ctx, keyPermissions, string(encoded)); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if err := m.store.Set(ctx, keyUserType, string(s.Kind)); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if s.Kind == KindTenant {
		if err := m.store.Set(ctx, keyTenantID, s.TenantID); err != nil {
			return errors.Join(ErrStoreFailure, err)
		}
	} else {
		// A previous tenant session must not leak its scope into a
		// central one.
		if err := m.store.Remove(ctx, keyTenantID); err != nil {
			return errors.Join(ErrStoreFailure, err)
		}
	}
	return nil
}

// Load reads the persisted session. Returns ErrNoSession when no token
// is stored. Corrupted permission payloads degrade to an empty set; a
// malformed kind or tenant scope invalidates the whole session.
func (m *Manager) Load(ctx context.Context) (Session, error) {
	token, err := m.store.Get(ctx, keyToken)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return Session{}, ErrNoSession
		}
		return Session{}, errors.Join(ErrStoreFailure, err)
	}

	kind, err := m.store.Get(ctx, keyUserType)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return Session{}, errors.Join(ErrStoreFailure, err)
	}

	tenantID, err := m.store.Get(ctx, keyTenantID)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return Session{}, errors.Join(ErrStoreFailure, err)
	}

	encoded, err := m.store.Get(ctx, keyPermissions)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return Session{}, errors.Join(ErrStoreFailure, err)
	}

	s := Session{
		Token:       token,
		Kind:        Kind(kind),
		TenantID:    tenantID,
		Permissions: permissions.ParseGroups([]byte(encoded)),
	}
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Token returns just the persisted bearer token, or empty when signed
// out. The gateway uses this on every call; it deliberately skips the
// full shape validation so a half-written session still authenticates
// with whatever token is there and fails server-side if stale.
func (m *Manager) Token(ctx context.Context) string {
	token, err := m.store.Get(ctx, keyToken)
	if err != nil {
		return ""
	}
	return token
}

// TenantID returns the persisted tenant scope, or empty for central
// principals and signed-out profiles.
func (m *Manager) TenantID(ctx context.Context) string {
	tenantID, err := m.store.Get(ctx, keyTenantID)
	if err != nil {
		return ""
	}
	return tenantID
}

// Clear destroys the persisted session. Called on logout and on an
// authentication rejection from the backend.
func (m *Manager) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{keyToken, keyPermissions, keyUserType, keyTenantID} {
		if err := m.store.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrStoreFailure}, errs...)...)
	}
	return nil
}
