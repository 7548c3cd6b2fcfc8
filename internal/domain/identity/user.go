package identity

import (
	"time"

	"github.com/nexus/backend/internal/domain/shared"
)

// UserStatus represents the status of a back-office user
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// User is a back-office account
type User struct {
	shared.BaseEntity
	FirstName    string           `json:"firstName" validate:"min=2"`
	LastName     string           `json:"lastName" validate:"min=2"`
	Email        string           `json:"email" validate:"email"`
	PasswordHash string           `json:"passwordHash"`
	RoleID       string           `json:"roleId"`
	Status       UserStatus       `json:"status" validate:"oneof=active inactive suspended"`
	LastLogin    shared.Timestamp `json:"lastLogin,omitzero"`
}

// NewUser returns a user in its initial state
func NewUser() User {
	return User{Status: UserStatusInactive}
}

// CanLogin reports whether the account may sign in
func (u *User) CanLogin() bool {
	return u.Status != UserStatusSuspended
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin(now time.Time) {
	u.LastLogin = shared.NewTimestamp(now)
}

// Role groups permissions. Roles are stored but never enforced.
type Role struct {
	shared.BaseEntity
	Name        string `json:"name" validate:"min=2"`
	Description string `json:"description,omitempty"`
}

// NewRole returns a role in its initial state
func NewRole() Role {
	return Role{}
}

// Permission grants CRUD flags on a module to a role. Stored, never enforced.
type Permission struct {
	shared.BaseEntity
	RoleID    string `json:"roleId" validate:"required"`
	Module    string `json:"module" validate:"required"`
	CanCreate bool   `json:"canCreate"`
	CanRead   bool   `json:"canRead"`
	CanUpdate bool   `json:"canUpdate"`
	CanDelete bool   `json:"canDelete"`
}

// NewPermission returns a permission with every flag off
func NewPermission() Permission {
	return Permission{}
}
