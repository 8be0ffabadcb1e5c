package pool

import "epool/internal/pkg/apperrors"

var (
	ErrFolderNotFound     = apperrors.NotFound(apperrors.MsgPoolFolderNotFound)
	ErrMemberNotFound     = apperrors.NotFound(apperrors.MsgPoolMemberNotFound)
	ErrFileNotFound       = apperrors.NotFound(apperrors.MsgPoolFileNotFound)
	ErrUserNotFound       = apperrors.NotFound(apperrors.MsgUserNotFound)
	ErrAlreadyMember      = apperrors.Validation(apperrors.MsgAlreadyPoolMember)
	ErrOwnerCannotJoin    = apperrors.Unprocessable(apperrors.MsgOwnerCannotJoin)
	ErrNoFolderPermission = apperrors.Validation(apperrors.MsgNoFolderPermission)
	ErrNoFolderAccess     = apperrors.Validation(apperrors.MsgNoFolderAccess)
	ErrNoMemberPermission = apperrors.Validation(apperrors.MsgNoMemberPermission)
	ErrNoFilePermission   = apperrors.Validation(apperrors.MsgNoFilePermission)
	ErrEmailRequired      = apperrors.Validation(apperrors.MsgEmailRequiredForGuest)
	ErrPleaseSignIn       = apperrors.Validation("Account already exists, please sign in")
	ErrOwnerOnlyLink      = apperrors.Forbidden("Only the folder owner can generate an invite link")
	ErrLinkCodeExhausted  = apperrors.Internal("Could not generate a unique invite link")
	ErrInternal           = apperrors.Internal(apperrors.MsgInternalServerError)
)
