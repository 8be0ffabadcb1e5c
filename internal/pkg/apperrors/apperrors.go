// Package apperrors maps service-layer errors to a single HTTP status and
// client-safe message. Handlers never surface raw store or driver error text.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnprocessable
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error    { return New(KindValidation, message) }
func Unauthorized(message string) *Error  { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error     { return New(KindForbidden, message) }
func NotFound(message string) *Error      { return New(KindNotFound, message) }
func Conflict(message string) *Error      { return New(KindConflict, message) }
func Unprocessable(message string) *Error { return New(KindUnprocessable, message) }
func Internal(message string) *Error      { return New(KindInternal, message) }

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Resolve returns the HTTP status and message for any error. Unrecognized
// errors collapse to 500 with a fixed message so internal detail never leaks.
func Resolve(err error) (int, string) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind.HTTPStatus(), appErr.Message
	}
	return http.StatusInternalServerError, MsgInternalServerError
}

// Shared message enumeration. Services return these verbatim so every
// failure path produces a fixed, client-safe string.
const (
	MsgInvalidCredentials    = "Invalid credentials"
	MsgEmailMustBeSpecified  = "Email must be specified"
	MsgUserNotFound          = "User not found"
	MsgAccountAlreadyExists  = "Account already exists, kindly login"
	MsgInternalServerError   = "Internal server error"
	MsgAccountNotVerified    = "Account is not verified"
	MsgCannotGenerateOTP     = "Cannot generate OTP for verified account"
	MsgInvalidOTPResend      = "Invalid OTP resend attempt"
	MsgPleaseUseNewPassword  = "Please use a new password"
	MsgNoPasswordSet         = "No password set for this account"
	MsgPoolFolderNotFound    = "Pool folder not found"
	MsgPoolMemberNotFound    = "Pool member not found"
	MsgPoolFileNotFound      = "Pool file not found"
	MsgAlreadyPoolMember     = "User is already a member of this pool folder"
	MsgOwnerCannotJoin       = "Owner cannot join their own pool folder"
	MsgNoFolderPermission    = "You do not have permission to modify this pool folder"
	MsgNoFolderAccess        = "You do not have access to this pool folder"
	MsgNoMemberPermission    = "You do not have permission to modify this pool member"
	MsgNoFilePermission      = "You do not have permission to delete this pool file"
	MsgEmailRequiredForGuest = "Email is required for anonymous users"
)
