package session

import "errors"

var (
	// ErrInvalidConfig is returned by New when a required setting is missing.
	ErrInvalidConfig = errors.New("session.invalid_config")
	// ErrMissingCSRFToken means the login page did not contain the configured
	// CSRF field. Only returned in strict mode.
	ErrMissingCSRFToken = errors.New("session.missing_csrf_token")
	// ErrAuthenticationRejected means the login POST did not yield the session
	// cookie. Login always returns it; Request only in strict mode.
	ErrAuthenticationRejected = errors.New("session.authentication_rejected")
)
