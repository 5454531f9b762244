package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "accounts/internal/delivery/context"
	domainerrors "accounts/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware requires a Bearer session token on protected routes.
type AuthMiddleware struct {
	logger *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{logger: logger}
}

// RequireBearer extracts the token from the Authorization header. Verification
// happens in the usecase so expired and invalid tokens map to distinct errors.
func (m *AuthMiddleware) RequireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		token := ""
		if len(authHeader) > len(bearerPrefix) && strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			token = strings.TrimSpace(authHeader[len(bearerPrefix):])
		}
		if token == "" {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Debug("Rejected request without bearer token", slog.String("path", c.Request().URL.Path))

			return domainerrors.ErrTokenInvalid.WithDetails("missing bearer token")
		}

		deliverycontext.SetBearerToken(c, token)

		return next(c)
	}
}
