package auth

import "epool/internal/pkg/apperrors"

var (
	ErrInvalidCredentials = apperrors.Unauthorized(apperrors.MsgInvalidCredentials)
	ErrAccountExists      = apperrors.Conflict(apperrors.MsgAccountAlreadyExists)
	ErrAccountNotVerified = apperrors.Forbidden(apperrors.MsgAccountNotVerified)
	ErrCannotGenerateOTP  = apperrors.Forbidden(apperrors.MsgCannotGenerateOTP)
	ErrInvalidOTPResend   = apperrors.Validation(apperrors.MsgInvalidOTPResend)
	ErrUserNotFound       = apperrors.NotFound(apperrors.MsgUserNotFound)
	ErrNoPasswordSet      = apperrors.Unprocessable(apperrors.MsgNoPasswordSet)
	ErrPasswordMismatch   = apperrors.Unprocessable(apperrors.MsgInvalidCredentials)
	ErrPleaseUseNewPasswd = apperrors.Forbidden(apperrors.MsgPleaseUseNewPassword)
	ErrInternal           = apperrors.Internal(apperrors.MsgInternalServerError)
)
