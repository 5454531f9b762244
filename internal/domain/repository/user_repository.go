// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"accounts/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when no user matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// UserFilter is an equality predicate over user fields. Empty fields are left
// unconstrained; a filter with every field empty matches no user.
type UserFilter struct {
	ID    string
	Email string
}

// IsZero reports whether the filter constrains no field.
func (f UserFilter) IsZero() bool {
	return f.ID == "" && f.Email == ""
}

// UserRepository defines the operations of the user store.
// Failures other than "not found" are reported as domainerrors.StoreError.
type UserRepository interface {
	// Create persists a new user and assigns its ID and CreatedAt.
	Create(ctx context.Context, user *entity.User) error

	// FindOne returns the first user matching the filter, or ErrUserNotFound.
	FindOne(ctx context.Context, filter UserFilter) (*entity.User, error)

	// FindAll returns every stored user in natural store order.
	FindAll(ctx context.Context) ([]*entity.User, error)
}
