package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Stable machine-readable codes. Clients and tests assert on these rather
// than on the human-readable message, which may be localized.
const (
	TextCodeEmailAlreadyRegistered   = "EMAIL_ALREADY_REGISTERED"
	TextCodeEmailUnregistered        = "EMAIL_UNREGISTERED"
	TextCodeEmailUnconfirmed         = "EMAIL_UNCONFIRMED"
	TextCodeEmailAlreadyConfirmed    = "EMAIL_ALREADY_CONFIRMED"
	TextCodeInvalidConfirmationCode  = "INVALID_CONFIRMATION_CODE"
	TextCodeInvalidPasswordResetCode = "INVALID_PASSWORD_RESET_CODE"
	TextCodeIncorrectCredentials     = "INCORRECT_CREDENTIALS"
	TextCodeSessionInvalid           = "SESSION_EXPIRED_OR_INVALID"
)

// ErrEmailAlreadyRegistered is returned when registering an email that
// already has an account.
var ErrEmailAlreadyRegistered = goerrors.New("email is already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailAlreadyRegistered).
	WithCode(goerrors.CodeConflict)

// ErrEmailUnregistered is returned when an operation requires an existing
// account and none is found for the email.
var ErrEmailUnregistered = goerrors.New("email is not registered", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmailUnregistered).
	WithCode(goerrors.CodeBadRequest)

// ErrEmailUnconfirmed is returned when an operation requires a confirmed
// account.
var ErrEmailUnconfirmed = goerrors.New("email is not confirmed", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmailUnconfirmed).
	WithCode(goerrors.CodeBadRequest)

// ErrEmailAlreadyConfirmed is returned when confirming or re-sending a
// confirmation code for an account that is already confirmed.
var ErrEmailAlreadyConfirmed = goerrors.New("email is already confirmed", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailAlreadyConfirmed).
	WithCode(goerrors.CodeConflict)

// ErrInvalidConfirmationCode is returned when the supplied confirmation code
// does not match the one on record.
var ErrInvalidConfirmationCode = goerrors.New("invalid confirmation code", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidConfirmationCode).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidPasswordResetCode is returned when the supplied password reset
// code is stale or does not match the one on record.
var ErrInvalidPasswordResetCode = goerrors.New("invalid password reset code", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidPasswordResetCode).
	WithCode(goerrors.CodeBadRequest)

// ErrIncorrectCredentials is returned when password verification fails.
var ErrIncorrectCredentials = goerrors.New("incorrect credentials", goerrors.CategoryValidation).
	WithTextCode(TextCodeIncorrectCredentials).
	WithCode(goerrors.CodeBadRequest)

// ErrSessionInvalid collapses malformed, tampered, and expired tokens into a
// single externally visible error so responses do not leak which check
// failed.
var ErrSessionInvalid = goerrors.New("session is expired or invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionInvalid).
	WithCode(goerrors.CodeUnauthorized)

// IsSessionInvalidError reports whether err is (or wraps) the collapsed
// session verification failure.
func IsSessionInvalidError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == TextCodeSessionInvalid
	}

	return strings.Contains(err.Error(), "session is expired or invalid")
}

// TextCode extracts the stable code from a structured error, or "" when the
// error carries none.
func TextCode(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode
	}
	return ""
}
