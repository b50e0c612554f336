package authstate

import "errors"

var (
	// ErrLoginFailed wraps a failed credential exchange.
	ErrLoginFailed = errors.New("authstate.login_failed")

	// ErrMalformedLoginResponse indicates the backend's login payload is
	// missing required fields.
	ErrMalformedLoginResponse = errors.New("authstate.malformed_login_response")
)
