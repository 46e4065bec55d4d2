package core

import "errors"

// Account errors
var (
	ErrAccountExists      = errors.New("account already exists")         // 409 Conflict
	ErrAccountNotFound    = errors.New("account not found")              // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid email or password")      // 401 Unauthorized
	ErrAccountDeactivated = errors.New("account is deactivated")         // 401 Unauthorized
	ErrNotAccountHolder   = errors.New("not the holder of this account") // 403 Forbidden
)

// Project errors
var (
	ErrProjectNotFound = errors.New("project not found")                 // 404 Not Found
	ErrAccessDenied    = errors.New("no access to this project")         // 403 Forbidden
	ErrProjectArchived = errors.New("project is archived and read-only") // 409 Conflict
)

// Credential & session errors
var (
	ErrMissingAuthHeader = errors.New("missing authorization header") // 401
	ErrInvalidToken      = errors.New("invalid bearer token")         // 401
	ErrCredentialRevoked = errors.New("credential has been revoked")  // 401
	ErrSessionNotFound   = errors.New("session not found")            // 401
	ErrSessionExpired    = errors.New("session expired")              // 401
	ErrCacheNotFound     = errors.New("record not found in cache")
)

// Validation errors (client input)
var (
	ErrInvalidAuthHeader   = errors.New("invalid authorization format, expected 'Bearer <token>'") // 401
	ErrProjectNameRequired = errors.New("project name is required")                                // 400
	ErrEmailRequired       = errors.New("email is required")                                       // 400
	ErrPasswordRequired    = errors.New("password is required")                                    // 400
	ErrPasswordTooShort    = errors.New("password is too short")                                   // 400
	ErrPasswordTooLong     = errors.New("password is too long")                                    // 400
	ErrInvalidEmail        = errors.New("invalid email format")                                    // 400
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired     = errors.New("storage adapter is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")    // 500
	ErrSecretRequired      = errors.New("secret is required")          // 500
	ErrSecretTooShort      = errors.New("secret too short")            // 500
)
