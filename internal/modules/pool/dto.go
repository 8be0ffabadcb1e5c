package pool

import (
	"time"

	"epool/internal/domain"
)

type CreateFolderRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=64"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type UpdateFolderRequest struct {
	Name *string `json:"name" binding:"omitempty,max=64"`
}

type CreateMemberRequest struct {
	PoolFolderID string `json:"poolFolderId" binding:"required,uuid"`
	UserID       string `json:"userId" binding:"required,uuid"`
	IsOwner      bool   `json:"isOwner"`
}

type UpdateMemberRequest struct {
	IsOwner *bool `json:"isOwner" binding:"required"`
}

// InviteLink is the generate-link response payload: the persisted code plus
// the join URL composed from the public base.
type InviteLink struct {
	LinkCode    string    `json:"linkCode"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// CreateFolderResult pairs the folder with the owner account, which may have
// been created on the fly for an anonymous request.
type CreateFolderResult struct {
	Folder *domain.PoolFolder `json:"folder"`
	Owner  *domain.User       `json:"owner"`
}
