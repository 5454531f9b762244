// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"accounts/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly stored user.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the session token issued after a successful login.
type LoginOutput struct {
	Token string
	User  *entity.User
}

// ListUsersOutput returns every stored user in store order.
type ListUsersOutput struct {
	Users []*entity.User
}

// ProfileOutput returns the user a session token belongs to.
type ProfileOutput struct {
	User *entity.User
}

// AccountUsecase defines the account operations the delivery layer depends on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	ListUsers(ctx context.Context) (*ListUsersOutput, error)
	Profile(ctx context.Context, token string) (*ProfileOutput, error)
}
