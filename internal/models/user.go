package models

import (
	"time"
)

// Role enum
type Role string

const (
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
)

// User represents an authenticated actor (doctor, admin or staff).
type User struct {
	BaseModel
	Username     string     `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"` // Never send the hash in JSON
	FullName     string     `gorm:"size:120;not null" json:"fullName"`
	Role         Role       `gorm:"size:20;default:'doctor'" json:"role"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
}

// UserSanitized represents the user data that is safe to render or return.
type UserSanitized struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	Role      Role       `json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}

// SetPassword enforces the password policy, hashes the password and sets
// the resulting hash on the user. The raw password is never stored.
func (u *User) SetPassword(password string) error {
	if err := CheckPasswordStrength(password); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword verifies a password against the stored hash. A wrong
// password returns (false, nil); only a malformed stored hash is an error.
func (u *User) CheckPassword(password string) (bool, error) {
	return VerifyPassword(password, u.PasswordHash)
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		LastLogin: u.LastLogin,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
