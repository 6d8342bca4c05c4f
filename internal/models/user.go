package models

import (
	"time"
)

// Roles a user can hold
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account able to log in and own appointments
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:150;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:20;not null;default:'user'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the assignable roles
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// UserResponse is the public view of a user, never carrying the password hash
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ToResponse strips the user down to its public fields
func (u *User) ToResponse() UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}
