package managers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/internal/auth"
	"github.com/superbullet/superbullet/internal/domain"
)

type userManager struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
}

type UserManagerDependencies struct {
	UserRepository domain.UserRepository
	TokenManager   *auth.TokenManager
}

func NewUserManager(deps UserManagerDependencies) domain.UserManager {
	return &userManager{
		users:  deps.UserRepository,
		tokens: deps.TokenManager,
	}
}

func (m *userManager) Register(ctx context.Context, p domain.RegisterParams) (domain.AuthResult, error) {
	email := strings.TrimSpace(p.Email)

	if email == "" || p.Password == "" {
		return domain.AuthResult{}, domain.BadRequest("Email and password are required")
	}

	if _, err := m.users.GetUserByEmail(ctx, email); err == nil {
		return domain.AuthResult{}, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.AuthResult{}, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return domain.AuthResult{}, err
	}

	user, err := m.users.CreateUser(ctx, domain.User{
		Email:           email,
		Name:            strings.TrimSpace(p.Name),
		PasswordHash:    hash,
		TokensRemaining: domain.DefaultTokensRemaining,
	})
	if err != nil {
		return domain.AuthResult{}, err
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")

	return m.authResult(user)
}

func (m *userManager) Login(ctx context.Context, p domain.LoginParams) (domain.AuthResult, error) {
	email := strings.TrimSpace(p.Email)

	if email == "" || p.Password == "" {
		return domain.AuthResult{}, domain.BadRequest("Email and password are required")
	}

	user, err := m.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.AuthResult{}, domain.ErrInvalidCredentials
		}
		return domain.AuthResult{}, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := auth.VerifyPassword(p.Password, user.PasswordHash)
	if err != nil {
		return domain.AuthResult{}, err
	}

	if !ok {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}

	return m.authResult(user)
}

func (m *userManager) VerifySession(token string) (domain.Session, error) {
	claims, err := m.tokens.Verify(token)
	if err != nil {
		log.Debug().Err(err).Msg("Token verification failed")
		return domain.Session{}, domain.ErrInvalidToken
	}

	session := domain.Session{
		UserID: claims.UserID,
		Email:  claims.Email,
	}

	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Unix()
	}

	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Unix()
	}

	return session, nil
}

func (m *userManager) authResult(user domain.User) (domain.AuthResult, error) {
	token, err := m.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return domain.AuthResult{}, err
	}

	return domain.AuthResult{User: user, Token: token}, nil
}
