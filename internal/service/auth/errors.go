package auth

import "errors"

// Login errors surfaced to callers
var (
	// ErrInvalidCredentials covers both an unknown identifier and a wrong
	// secret. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStoreUnavailable indicates the credential store failed or timed out
	// during lookup. It is retryable and distinct from ErrInvalidCredentials.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// Background failures. These never reach a caller and only appear in logs.
var (
	ErrRehashFailed = errors.New("password rehash failed")
)

// Token errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")
)

// Hasher errors
var (
	ErrInvalidCost = errors.New("bcrypt cost out of range")
	ErrEmptySecret = errors.New("secret cannot be empty")
)
