package service

import "errors"

// Service errors callers can check with errors.Is. The API layer maps them to
// HTTP status codes.
var (
	// ErrNotOwned indicates a resource belongs to a different user than the
	// one making the request. API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrWrongPassword indicates the current password supplied for a password
	// change did not verify. API layer should map this to HTTP 401.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrSamePassword indicates the new password equals the current one.
	ErrSamePassword = errors.New("new password must differ from the current password")
)
