// Package model defines database models
package model

import "time"

// User is the durable account record. PasswordHash stays nil until the
// account has been validated and a password was set; ValidationToken is
// cleared the moment the account becomes validated.
type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string  `gorm:"uniqueIndex;not null" json:"username"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash *string `json:"-"`
	Validated    bool    `gorm:"default:false" json:"validated"`

	ValidationToken *string    `json:"-"`
	TokenExpiresAt  *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`

	Contents []Content `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
