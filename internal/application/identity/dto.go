package identity

import (
	"time"

	"github.com/nexus/backend/internal/domain/identity"
	"github.com/nexus/backend/internal/domain/shared"
)

// LoginInput is the login request body. Email is optional; without it the
// default back-office user signs in.
type LoginInput struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
}

// UserInfo is a user as returned to clients, without the password hash
type UserInfo struct {
	ID        string              `json:"id"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Email     string              `json:"email"`
	RoleID    string              `json:"roleId"`
	Status    identity.UserStatus `json:"status"`
	LastLogin shared.Timestamp    `json:"lastLogin,omitzero"`
	CreatedAt shared.Timestamp    `json:"createdAt"`
	UpdatedAt shared.Timestamp    `json:"updatedAt"`
}

// ToUserInfo strips credentials from user
func ToUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		RoleID:    user.RoleID,
		Status:    user.Status,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// LoginResult is returned on successful login
type LoginResult struct {
	User        UserInfo  `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}
