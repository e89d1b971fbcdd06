package domain

import (
	"errors"
	"strings"
	"time"
)

// Roles recognised by the check-in application. Accounts default to
// RoleUser; RoleDirector and RoleDeveloper unlock administrative surfaces.
const (
	RoleUser      = "user"
	RoleDirector  = "director"
	RoleDeveloper = "developer"
)

var ErrInvalidInput = errors.New("invalid input")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrInvalidToken = errors.New("invalid token")
var ErrForbidden = errors.New("access forbidden")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUnavailable = errors.New("directory unavailable")

// ValidRole reports whether role is one of the three recognised values.
// Unknown roles are rejected, never coerced.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleDirector, RoleDeveloper:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims an email address. Every lookup and
// uniqueness check goes through this so that User@Example.com and
// user@example.com address the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User models an account in the check-in directory.
//
// PasswordHash is empty for accounts created by administrative provisioning;
// such accounts cannot log in until a password is set.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	Position     string    `json:"position,omitempty"`
	Role         string    `json:"role"`
	KPIs         string    `json:"kpis,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastSeenAt   time.Time `json:"last_seen_at"`
}
