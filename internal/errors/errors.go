package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a stable,
// machine-checkable code and a human-readable message.
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any wrapped variant of the same domain error code, so
// callers can compare against the predefined sentinels.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context. The
// underlying cause is kept for logging but never exposed to clients.
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Unauthorized: bad credentials, invalid/expired/blacklisted tokens.
	// Unknown email and wrong password intentionally share one error so
	// responses do not reveal which accounts exist.
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "incorrect email or password")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrInvalidToken       = NewDomainError("INVALID_TOKEN", "invalid or expired token")
	ErrTokenRevoked       = NewDomainError("TOKEN_REVOKED", "token has been revoked")
	ErrSessionNotFound    = NewDomainError("SESSION_NOT_FOUND", "session not found or revoked")
	ErrSessionExpired     = NewDomainError("SESSION_EXPIRED", "session expired")

	// Forbidden
	ErrAccountInactive  = NewDomainError("ACCOUNT_INACTIVE", "account is inactive")
	ErrInsufficientRole = NewDomainError("INSUFFICIENT_ROLE", "insufficient role")
	ErrProtectedAccount = NewDomainError("PROTECTED_ACCOUNT", "cannot modify a protected account")

	// Conflict
	ErrEmailExists    = NewDomainError("EMAIL_EXISTS", "email already registered")
	ErrUsernameExists = NewDomainError("USERNAME_EXISTS", "username already taken")

	// Validation
	ErrWeakPassword      = NewDomainError("WEAK_PASSWORD", "password must be at least 8 characters with upper, lower and digit")
	ErrTermsNotAccepted  = NewDomainError("TERMS_NOT_ACCEPTED", "terms of service must be accepted")
	ErrIncorrectPassword = NewDomainError("INCORRECT_PASSWORD", "incorrect old password")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "invalid input")

	// Not found
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "user not found")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "WEAK_PASSWORD", "TERMS_NOT_ACCEPTED", "INCORRECT_PASSWORD", "INVALID_INPUT":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN",
		"TOKEN_REVOKED", "SESSION_NOT_FOUND", "SESSION_EXPIRED":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "ACCOUNT_INACTIVE", "INSUFFICIENT_ROLE", "PROTECTED_ACCOUNT":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "EMAIL_EXISTS", "USERNAME_EXISTS":
		return http.StatusConflict

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts a client-facing error message.
// Non-domain errors collapse to a generic message so internal details
// never leak to the caller.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return ErrInternal.Message
}
