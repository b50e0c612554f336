// Package session persists the console's credential bundle: bearer
// token, the principal's permission groups, the principal kind and, for
// tenant employees, the tenant scoping identifier.
//
// A BNPL console serves two disjoint principal kinds that must never be
// conflated: the central operator and the tenant employee. The kind is
// a tagged variant at the type level; a tenant scope id cannot be
// attached to a central session, and loading enforces the same shape.
//
// Sessions are written on login, destroyed on logout or on an
// authentication rejection from the backend, and read by every gateway
// call. A session read while a logout is in flight observes either the
// old or the cleared state; a request sent with a just-revoked token
// fails with an authentication error through the normal gateway
// classification path.
package session
