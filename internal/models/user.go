package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null"`
	Role     string `gorm:"default:'user'"`
	Status   string `gorm:"default:'active'"`

	// ReferralCode stays nil until the user asks for one.
	ReferralCode *string `gorm:"uniqueIndex;size:16;default:null"`
	ReferrerID   *uint   `gorm:"index;default:null"`

	// StripeAccountID is the connected account USD payouts are sent to.
	StripeAccountID string
	TokenVersion    int `gorm:"default:1"`
	LastLoginAt     *time.Time
}

// HasReferrer reports whether the user signed up with a referral code.
func (u *User) HasReferrer() bool {
	return u.ReferrerID != nil
}

// Code returns the referral code or an empty string.
func (u *User) Code() string {
	if u.ReferralCode == nil {
		return ""
	}
	return *u.ReferralCode
}
