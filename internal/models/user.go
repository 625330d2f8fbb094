package models

import (
	"time"
)

// Roles a user can hold. Role is fixed at registration time and never
// mutated by profile updates.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an authenticated customer or administrator.
//
// Email carries a unique index so duplicate registration is rejected by the
// store itself, not by a check-then-insert in the application. The password
// hash and the reset-token columns never appear in JSON responses.
type User struct {
	BaseModel
	Name             string     `json:"name"`
	Email            string     `gorm:"uniqueIndex" json:"email"`
	PasswordHash     string     `json:"-"`
	Role             string     `gorm:"default:user" json:"role"`
	ResetTokenHash   *string    `gorm:"index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
