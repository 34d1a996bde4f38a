package domain

import (
	"errors"
	"time"
)

// User represents a registered account holder. Every stored transaction and
// every computed report is scoped to one user.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin can manage other users
	RoleAdmin Role = "admin"

	// RoleUser can import transactions and view their own reports
	RoleUser Role = "user"
)

var validRoles = map[Role]bool{
	RoleAdmin: true,
	RoleUser:  true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("user with this email already exists")
	ErrUserInactive = errors.New("user account is inactive")
	ErrForbidden    = errors.New("insufficient role for this operation")
)
