package models

import (
	"time"
)

const (
	RoleAdminID uint = 1
	RoleUserID  uint = 2
)

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;not null;uniqueIndex" json:"name"`
}

type User struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	Email                  string     `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Username               string     `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Password               string     `gorm:"size:255;not null" json:"-"`
	RoleID                 uint       `gorm:"not null;default:2;index" json:"role_id"`
	Role                   Role       `gorm:"foreignKey:RoleID" json:"role"`
	PhoneNumber            *string    `gorm:"size:20" json:"phone_number"`
	IsActive               bool       `gorm:"not null;default:true" json:"-"`
	IsStaff                bool       `gorm:"not null;default:false" json:"is_staff"`
	IsEmailVerified        bool       `gorm:"not null;default:false" json:"-"`
	EmailVerificationToken *string    `gorm:"size:36;uniqueIndex" json:"-"`
	PasswordResetToken     *string    `gorm:"size:36;uniqueIndex" json:"-"`
	PasswordResetCreatedAt *time.Time `json:"-"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"-"`
}

// HasStaffAccess reports whether the user may manage categories and other
// users' listings.
func (u *User) HasStaffAccess() bool {
	return u.IsStaff || u.RoleID == RoleAdminID
}
