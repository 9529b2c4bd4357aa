// Package models contains the server-side domain entities.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the account role, fixed at creation.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	default:
		return "user"
	}
}

// ParseRole converts a stored role string back to a Role.
// Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleUser, fmt.Errorf("invalid role: %q", s)
	}
}

// Audit holds record timestamps maintained by the database.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User is an account record. Email and Username are unique across all
// accounts; uniqueness is byte-exact (no case folding).
//
// VerificationCode and VerificationCodeExpiresAt are both set while a
// verification is pending and both nil otherwise, never one without the
// other. Verified is false from creation until a code is consumed, and is
// forced back to false on every login.
type User struct {
	ID           string
	Email        string
	Username     string
	FullName     string
	PasswordHash string
	Role         Role

	Verified                  bool
	VerificationCode          *string
	VerificationCodeExpiresAt *time.Time

	Audit
}

// PendingVerification reports whether the account holds an unconsumed code.
func (u *User) PendingVerification() bool {
	return u.VerificationCode != nil
}
