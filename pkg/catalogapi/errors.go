package catalogapi

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrInvalidRequest is returned when the backend rejects the request parameters
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthorized is returned when the CSRF token is missing or stale
	ErrUnauthorized = errors.New("unauthorized: CSRF token rejected")

	// ErrNotFound is returned when the addressed component, variant or picture does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrServerError is returned on a 5xx backend response
	ErrServerError = errors.New("backend server error")

	// ErrNetwork is returned when the request never produced a response
	ErrNetwork = errors.New("network error")
)
