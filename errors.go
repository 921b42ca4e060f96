package session

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidEmail      = "INVALID_EMAIL_FORMAT"
	textCodePasswordTooShort  = "PASSWORD_TOO_SHORT"
	textCodeInvalidCreds      = "INVALID_CREDENTIALS"
	textCodeRegistration      = "REGISTRATION_FAILED"
	textCodeSessionExpired    = "SESSION_EXPIRED"
	textCodeNetwork           = "NETWORK_ERROR"
	textCodeProfileFetch      = "PROFILE_FETCH_FAILED"
	textCodeUnauthorized      = "UNAUTHORIZED"
	textCodeInvalidTransition = "INVALID_SESSION_TRANSITION"
	textCodeSuperseded        = "OPERATION_SUPERSEDED"
)

// ErrInvalidEmail is returned before any network call when the email has no
// "@" character.
var ErrInvalidEmail = goerrors.New("please enter a valid email address", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidEmail).
	WithCode(goerrors.CodeBadRequest)

// ErrPasswordTooShort is returned before any network call for passwords under
// six characters.
var ErrPasswordTooShort = goerrors.New("password must be at least 6 characters long", goerrors.CategoryValidation).
	WithTextCode(textCodePasswordTooShort).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidCredentials covers both rejected credentials and a 2xx login
// response missing its token or user. The backend's error signaling is not
// trusted to always use non-2xx codes.
var ErrInvalidCredentials = goerrors.New("invalid email or password, please check your credentials and try again", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrRegistrationFailed is the fallback when the server supplies no message.
var ErrRegistrationFailed = goerrors.New("registration failed", goerrors.CategoryAuth).
	WithTextCode(textCodeRegistration).
	WithCode(goerrors.CodeBadRequest)

// ErrSessionExpired is returned when a refresh cannot mint a new access
// token; the session has already been reset when callers see it.
var ErrSessionExpired = goerrors.New("session expired", goerrors.CategoryAuth).
	WithTextCode(textCodeSessionExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrNetwork maps any transport-level failure (timeout, DNS, reset).
var ErrNetwork = goerrors.New("network error, please check your internet connection and try again", goerrors.CategoryOperation).
	WithTextCode(textCodeNetwork)

// ErrProfileFetch is non-fatal: a failed profile fetch records an error but
// never tears the session down.
var ErrProfileFetch = goerrors.New("failed to fetch profile", goerrors.CategoryOperation).
	WithTextCode(textCodeProfileFetch)

// ErrUnauthorized is returned to the caller after a 401 response has already
// forced the session teardown.
var ErrUnauthorized = goerrors.New("request was not authorized", goerrors.CategoryAuth).
	WithTextCode(textCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidTransition is returned when a requested session status change is
// not allowed by the transition table.
var ErrInvalidTransition = goerrors.New("invalid session state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// ErrSuperseded reports that an operation completed after a newer session
// change (a logout or a later attempt) and its result was discarded.
var ErrSuperseded = goerrors.New("operation superseded by a newer session change", goerrors.CategoryConflict).
	WithTextCode(textCodeSuperseded).
	WithCode(goerrors.CodeConflict)

// IsSupersededError checks for a discarded stale completion.
func IsSupersededError(err error) bool {
	return hasTextCode(err, textCodeSuperseded)
}

// IsSessionExpiredError checks for a failed refresh outcome.
func IsSessionExpiredError(err error) bool {
	return hasTextCode(err, textCodeSessionExpired)
}

// IsNetworkError checks for transport-level failures.
func IsNetworkError(err error) bool {
	return hasTextCode(err, textCodeNetwork)
}

// IsUnauthorizedError checks for a 401 propagated by the HTTP adapter.
func IsUnauthorizedError(err error) bool {
	return hasTextCode(err, textCodeUnauthorized)
}

// ErrorMessage extracts the human-readable message carried by a rich error,
// falling back to Error() for plain ones. Forms render this next to the
// relevant fields.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Message
	}
	return err.Error()
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}
