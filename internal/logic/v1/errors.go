// Package v1 provides authentication business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors that represent common authentication
// failures. These errors should be wrapped with context using
// fmt.Errorf("%w") when returned from business logic methods, and checked
// in handlers with errors.Is.
package v1

import "errors"

// Sentinel errors for authentication operations.
var (
	// ErrInvalidCredentials indicates the provided password is incorrect.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates the user does not exist in the system.
	// HTTP Status: 401 on login (don't reveal user existence), 404 on
	// profile access for an already-authenticated identity.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates the email is already registered.
	// HTTP Status: 409 Conflict
	ErrEmailTaken = errors.New("email already registered")

	// ErrTokenExpired indicates the bearer token is past its expiry.
	// HTTP Status: 401 Unauthorized
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the bearer token failed signature or
	// format checks. A token whose signature fails is never partially
	// trusted.
	// HTTP Status: 401 Unauthorized
	ErrTokenInvalid = errors.New("token invalid")

	// ErrMissingSecret indicates the token-signing secret is not
	// configured. The affected capability must refuse to operate rather
	// than issue insecurely-signed tokens.
	// HTTP Status: 500 Internal Server Error
	ErrMissingSecret = errors.New("token signing secret is not configured")
)
