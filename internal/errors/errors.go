package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDuplicateEmail is returned by the store when the email unique index rejects a write.
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrEmailInUse is returned when registering an email that already has an account.
	ErrEmailInUse = errors.New("email already in use")
	// ErrThirdPartyIDInUse is returned when a third-party identity already belongs to another account.
	ErrThirdPartyIDInUse = errors.New("third-party identity already linked to another account")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordTooLong is returned when a password exceeds bcrypt's 72-byte input limit.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
	// ErrNoFieldsSupplied is returned when a profile update carries no fields.
	ErrNoFieldsSupplied = errors.New("no fields supplied")
	// ErrStoreUnavailable is returned when the relational store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUserNotFound is returned when a user id does not resolve to a record.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidIdentityToken is returned when the identity provider rejects an ID token.
	ErrInvalidIdentityToken = errors.New("invalid identity token")
	// ErrIdentityProviderDisabled is returned when no identity provider is configured.
	ErrIdentityProviderDisabled = errors.New("identity provider not configured")
)

// StoreError wraps a driver failure with the operation that produced it.
// Kind is one of the sentinels above; errors.Is matches against it.
type StoreError struct {
	Op   string
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// Internal reports whether err falls outside every known kind.
func Internal(err error) bool {
	return MapErrorToHTTP(err).StatusCode == http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Unclassified errors never leak their message.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailInUse), errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, ErrEmailInUse.Error(), "EMAIL_IN_USE")
	case errors.Is(err, ErrThirdPartyIDInUse):
		return NewHTTPError(http.StatusConflict, ErrThirdPartyIDInUse.Error(), "THIRD_PARTY_ID_IN_USE")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidIdentityToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidIdentityToken.Error(), "INVALID_IDENTITY_TOKEN")
	case errors.Is(err, ErrPasswordTooLong):
		return NewHTTPError(http.StatusBadRequest, ErrPasswordTooLong.Error(), "PASSWORD_TOO_LONG")
	case errors.Is(err, ErrNoFieldsSupplied):
		return NewHTTPError(http.StatusBadRequest, ErrNoFieldsSupplied.Error(), "NO_FIELDS_SUPPLIED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrStoreUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, ErrStoreUnavailable.Error(), "STORE_UNAVAILABLE")
	case errors.Is(err, ErrIdentityProviderDisabled):
		return NewHTTPError(http.StatusServiceUnavailable, ErrIdentityProviderDisabled.Error(), "PROVIDER_DISABLED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
