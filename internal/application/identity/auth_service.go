// Package identity implements back-office sign in.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nexus/backend/internal/domain/identity"
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/nexus/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	GenerateAccessToken(userID, email, roleID string) (*auth.AccessToken, error)
}

// AuthService checks the shared back-office password and issues tokens
type AuthService struct {
	users         shared.EntityRepository[identity.User]
	tokens        TokenIssuer
	passwordHash  []byte
	defaultUserID string
	now           func() time.Time
	logger        *zap.Logger
}

// NewAuthService creates a new auth service. password is hashed once here.
func NewAuthService(
	users shared.EntityRepository[identity.User],
	tokens TokenIssuer,
	password string,
	defaultUserID string,
	logger *zap.Logger,
) (*AuthService, error) {
	if password == "" {
		return nil, errors.New("auth password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash auth password: %w", err)
	}
	return &AuthService{
		users:         users,
		tokens:        tokens,
		passwordHash:  hash,
		defaultUserID: defaultUserID,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logger,
	}, nil
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password)); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("email", input.Email))
		return nil, shared.ErrUnauthorized
	}

	user, err := s.resolveUser(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		s.logger.Warn("Login attempt for suspended account", zap.String("user_id", user.ID))
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Account is suspended")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	updated, err := s.users.Mutate(ctx, user.ID, func(current *identity.User) error {
		current.RecordLogin(s.now())
		return nil
	})
	if err != nil {
		// The login still succeeds without the timestamp
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID), zap.Error(err))
		updated = user
	}

	s.logger.Info("User logged in successfully", zap.String("user_id", user.ID))

	return &LoginResult{
		User:        ToUserInfo(updated),
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
	}, nil
}

func (s *AuthService) resolveUser(ctx context.Context, email string) (*identity.User, error) {
	if email == "" {
		user, err := s.users.Get(ctx, s.defaultUserID)
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Default user missing", zap.String("user_id", s.defaultUserID))
			return nil, shared.ErrUnauthorized
		}
		return user, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	s.logger.Warn("User not found during login", zap.String("email", email))
	return nil, shared.ErrUnauthorized
}
