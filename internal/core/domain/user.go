package domain

import (
	"github.com/google/uuid"
)

// Role controls access to the administrative surface.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a resolved identity. It is created at authentication time and
// immutable for the lifetime of the session.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// IsAdmin reports whether the user may call treasury operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is a directory record backing authentication. The password is
// stored as an Argon2id hash, never in plaintext.
type Identity struct {
	User
	PasswordHash string `json:"-"`
}
