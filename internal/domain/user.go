package domain

import (
	"context"
	"time"
)

const DefaultTokensRemaining = 1000

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	PasswordHash    string    `json:"-"`
	TokensRemaining int       `json:"tokensRemaining"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type UserRepository interface {
	// CreateUser returns ErrUserExists when the email is taken
	CreateUser(ctx context.Context, user User) (User, error)
	// GetUserByEmail returns ErrUserNotFound when no user matches
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
}
