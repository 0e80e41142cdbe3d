package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local record of a person.
//
// A user is claimed once ProviderUserID is set; unclaimed users are created
// implicitly when someone is named as a feedback author before registering.
type User struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProviderUserID  *string   `gorm:"type:varchar(191);uniqueIndex" json:"provider_user_id"`
	Email           string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"`
	FirstName       string    `gorm:"type:varchar(120)" json:"first_name"`
	LastName        string    `gorm:"type:varchar(120)" json:"last_name"`
	ProfileImageURL *string   `gorm:"type:text" json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName pins the table name.
func (User) TableName() string {
	return TableUsers
}

// BeforeCreate assigns a UUID when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsClaimed reports whether the record is linked to a provider identity.
func (u *User) IsClaimed() bool {
	return u.ProviderUserID != nil && *u.ProviderUserID != ""
}
