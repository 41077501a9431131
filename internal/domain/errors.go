package domain

import "errors"

var (
	// ErrUnauthenticated means the caller has no session. Callers redirect to login.
	ErrUnauthenticated = errors.New("no authenticated session")
	// ErrRemoteUnavailable wraps every failure of the external backend.
	ErrRemoteUnavailable = errors.New("remote service unavailable")
)
