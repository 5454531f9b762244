// Package response builds the JSON bodies returned by the account API.
package response

import (
	"net/http"

	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MessageResponse is the body of every account endpoint: a message plus at most one payload.
type MessageResponse struct {
	Message string        `json:"message"`
	Error   string        `json:"error,omitempty"` // Underlying cause, 5xx only
	Token   string        `json:"token,omitempty"`
	User    *UserResponse `json:"user,omitempty"`
}

// UserResponse is the public view of a user. The password hash is never serialized.
type UserResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// HealthResponse is the body of the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// Message returns a body carrying only a message
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, MessageResponse{Message: message})
}

// Token returns a successful login body
func Token(c echo.Context, message, token string) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: message, Token: token})
}

// User returns a body carrying the given user
func User(c echo.Context, message string, user *entity.User) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: message, User: NewUserResponse(user)})
}

// Error returns an error body. Details are only exposed for server errors.
func Error(c echo.Context, statusCode int, message, details string) error {
	if statusCode < http.StatusInternalServerError {
		details = ""
	}

	return c.JSON(statusCode, MessageResponse{Message: message, Error: details})
}

// HandleAppError converts domain errors to their HTTP response; other errors are passed up.
func HandleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return Error(c, appErr.HTTPCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}

// NewUserResponse maps a user entity to its public view
func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}

	return &UserResponse{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
	}
}
