package services

import "errors"

var (
	// Registration
	ErrDuplicateUsername   = errors.New("username already taken")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidRegistration = errors.New("invalid registration data")

	// Credentials. Deliberately generic: callers must not learn whether the
	// user exists.
	ErrAuthenticationFailure = errors.New("invalid username or password")
	ErrTokenInvalid          = errors.New("invalid or expired token")
	ErrInvalidPassword       = errors.New("password is required")

	// Social graph
	ErrCannotFollowSelf = errors.New("cannot follow yourself")

	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidPost    = errors.New("post body must be 1-140 characters")
	ErrInvalidProfile = errors.New("about me must be at most 140 characters")

	ErrInvalidAvatar   = errors.New("avatar must be a jpeg, png or webp image of at most 5MB")
	ErrStorageDisabled = errors.New("avatar storage is not configured")
)
