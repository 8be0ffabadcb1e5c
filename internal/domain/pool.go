package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PoolFolder is a shared media container. Deleting a folder cascades to its
// members and files; the owner user is never deleted by folder removal.
type PoolFolder struct {
	ID              string       `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID         string       `json:"ownerId" gorm:"type:uuid;index;not null"`
	Owner           *User        `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Name            *string      `json:"name,omitempty" gorm:"size:64"`
	LinkCode        *string      `json:"linkCode,omitempty" gorm:"size:8;uniqueIndex"`
	LinkGeneratedAt *time.Time   `json:"linkGeneratedAt,omitempty"`
	Members         []PoolMember `json:"members,omitempty" gorm:"foreignKey:PoolFolderID"`
	Files           []PoolFile   `json:"files,omitempty" gorm:"foreignKey:PoolFolderID"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func (f *PoolFolder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

func (f *PoolFolder) IsOwnedBy(userID string) bool {
	return userID != "" && f.OwnerID == userID
}

// HasOwnerMember reports whether userID holds an owner-privileged
// membership row. Requires Members to be loaded.
func (f *PoolFolder) HasOwnerMember(userID string) bool {
	for _, m := range f.Members {
		if m.UserID == userID && m.IsOwner {
			return true
		}
	}
	return false
}

func (f *PoolFolder) HasMember(userID string) bool {
	for _, m := range f.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CanModify is the shared authorization predicate for mutating the folder
// and its members/files: the owner or an owner-privileged member.
func (f *PoolFolder) CanModify(userID string) bool {
	return f.IsOwnedBy(userID) || f.HasOwnerMember(userID)
}

// CanRead permits owner and any member, matching the listing endpoints.
func (f *PoolFolder) CanRead(userID string) bool {
	return f.IsOwnedBy(userID) || f.HasMember(userID)
}

// PoolMember links one user to one folder. Exactly one member per folder has
// IsOwner=true, created in the same transaction as the folder itself.
type PoolMember struct {
	ID           string      `json:"id" gorm:"type:uuid;primaryKey"`
	PoolFolderID string      `json:"poolFolderId" gorm:"type:uuid;uniqueIndex:idx_pool_member_folder_user;not null"`
	PoolFolder   *PoolFolder `json:"poolFolder,omitempty" gorm:"foreignKey:PoolFolderID;constraint:OnDelete:CASCADE"`
	UserID       string      `json:"userId" gorm:"type:uuid;uniqueIndex:idx_pool_member_folder_user;not null"`
	User         *User       `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	IsOwner      bool        `json:"isOwner"`
	InvitedAt    time.Time   `json:"invitedAt"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (m *PoolMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// PoolFile is an uploaded asset under exactly one folder. The storage object
// behind URL is removed best-effort when the record is deleted.
type PoolFile struct {
	ID           string      `json:"id" gorm:"type:uuid;primaryKey"`
	PoolFolderID string      `json:"poolFolderId" gorm:"type:uuid;index;not null"`
	PoolFolder   *PoolFolder `json:"poolFolder,omitempty" gorm:"foreignKey:PoolFolderID;constraint:OnDelete:CASCADE"`
	Filename     string      `json:"filename" gorm:"not null"`
	URL          string      `json:"url" gorm:"not null"`
	Size         int64       `json:"size"`
	Mimetype     string      `json:"mimetype"`
	AspectRatioW int         `json:"aspectRatioW"`
	AspectRatioH int         `json:"aspectRatioH"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (p *PoolFile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
