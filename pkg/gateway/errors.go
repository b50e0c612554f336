package gateway

import (
	"errors"
	"fmt"
)

// Kind is the classification of a gateway failure. The taxonomy is
// exhaustive: every error returned by a Client carries exactly one kind.
type Kind string

const (
	// KindValidation is a field-level validation rejection. Recovered at
	// the form boundary, never fatal.
	KindValidation Kind = "validation"

	// KindAuthentication is a 401: the token is missing, stale or revoked.
	// Observers must tear down the session.
	KindAuthentication Kind = "authentication"

	// KindAuthorization is a 403: authenticated but not permitted. Does
	// not invalidate the session.
	KindAuthorization Kind = "authorization"

	// KindNotFound is a 404.
	KindNotFound Kind = "not_found"

	// KindNetwork is a transport-level failure: DNS, connection refused,
	// timeout. The only kind retried automatically.
	KindNetwork Kind = "network"

	// KindGeneric is any other non-success response.
	KindGeneric Kind = "generic"
)

// Error is a classified gateway failure.
type Error struct {
	Kind        Kind
	StatusCode  int
	Message     string
	FieldErrors map[string][]string
	cause       error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("gateway: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf returns the classification of err, or empty when err is not a
// gateway error.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return ""
}

// IsAuthentication reports whether err is an authentication rejection.
func IsAuthentication(err error) bool {
	return KindOf(err) == KindAuthentication
}

// FieldErrors returns the field-level validation messages of err, or nil.
func FieldErrors(err error) map[string][]string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.FieldErrors
	}
	return nil
}
