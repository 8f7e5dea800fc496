package models

import (
	"time"
)

type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Password string  `gorm:"not null" json:"-"` // Hash
	Nickname *string `gorm:"uniqueIndex;size:15" json:"nickname"`
	Address  string  `gorm:"size:40" json:"address"`
	City     string  `gorm:"size:40" json:"city"`
	Picture  string  `json:"picture"`                 // media path of the profile picture
	Bio      string  `gorm:"size:200" json:"bio"`     // short intro shown on the public page
	Rating   int     `gorm:"default:0" json:"rating"` // seller rating 1-5, 0 = unrated

	Verified   bool      `gorm:"default:false" json:"verified"`
	VerifyCode string    `gorm:"size:20" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	// No DeletedAt for hard delete
}

// ProfileComplete reports whether nickname, address and city are all set.
// Derived on every request, never persisted.
func (u *User) ProfileComplete() bool {
	if u.Nickname == nil || *u.Nickname == "" {
		return false
	}
	return u.Address != "" && u.City != ""
}

// DisplayName falls back to the email local part until a nickname is set.
func (u *User) DisplayName() string {
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
