package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims carried by session tokens.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	// Issue signs a token for the given user ID using the configured secret and TTL.
	Issue(userID string) (string, error)

	// Verify checks signature and expiry and returns the embedded user ID.
	// Failures are domainerrors.ErrTokenExpired or domainerrors.ErrTokenInvalid.
	Verify(token string) (string, error)
}
