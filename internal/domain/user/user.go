package user

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies a user account
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User is an identity principal. Records are written once at
// registration; the reservation engine only ever reads ID and Role.
type User struct {
	ID           uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        *string   `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsValid validates the role
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleAdmin:
		return true
	}
	return false
}

// Principal is the authenticated identity threaded into every engine
// call. It is resolved once per request from the bearer token.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}
