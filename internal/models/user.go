package models

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin     Role = "admin"
	RolePM        Role = "pm"
	RoleDeveloper Role = "developer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePM, RoleDeveloper:
		return true
	}
	return false
}

// Assignable reports whether a user with this role may be assigned to tasks.
func (r Role) Assignable() bool {
	return r == RolePM || r == RoleDeveloper
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
}

// Summary strips the credential fields for embedding in API responses.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}
