package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity record. Password is nil for anonymous accounts
// created through the anonymous pool-folder flow; a verified, non-anonymous
// user always has a non-nil password.
type User struct {
	ID            string         `json:"id" gorm:"type:uuid;primaryKey"`
	Username      *string        `json:"username,omitempty" gorm:"size:64;uniqueIndex"`
	Email         string         `json:"email" gorm:"size:255;uniqueIndex;not null"`
	FirstName     *string        `json:"firstName,omitempty"`
	LastName      *string        `json:"lastName,omitempty"`
	Gender        *string        `json:"gender,omitempty"`
	Password      *string        `json:"-"`
	IsVerified    bool           `json:"isVerified"`
	IsAnonymous   bool           `json:"isAnonymous"`
	IsDeactivated bool           `json:"isDeactivated"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) FirstNameOrEmpty() string {
	if u.FirstName == nil {
		return ""
	}
	return *u.FirstName
}

func (u *User) LastNameOrEmpty() string {
	if u.LastName == nil {
		return ""
	}
	return *u.LastName
}
