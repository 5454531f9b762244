// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"accounts/internal/delivery/api/response"
	"accounts/internal/delivery/api/view"
	deliverycontext "accounts/internal/delivery/context"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RegisterRequest is the body of POST /register, as JSON or a urlencoded form.
type RegisterRequest struct {
	FirstName   string `json:"firstName" form:"firstName"`
	LastName    string `json:"lastName" form:"lastName"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid registration input")
	}

	_, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "User registered successfully!")
}

// Login handles the login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid login input")
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Token(c, "Login successful", output.Token)
}

// ListUsers renders every registered user as an HTML table.
func (h *AccountHandler) ListUsers(c echo.Context) error {
	output, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return h.usersPageError(c, err)
	}

	if err := c.Render(http.StatusOK, view.UsersPage, output.Users); err != nil {
		return h.usersPageError(c, err)
	}

	return nil
}

// The users page reports failures as plain text rather than JSON.
func (h *AccountHandler) usersPageError(c echo.Context, err error) error {
	deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).
		Error("Failed to render users page", slog.Any("error", err))

	return c.String(http.StatusInternalServerError, domainerrors.ErrUsersFetchFailed.Message())
}

// Profile returns the user the bearer token was issued for.
func (h *AccountHandler) Profile(c echo.Context) error {
	output, err := h.uc.Profile(c.Request().Context(), deliverycontext.GetBearerToken(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.User(c, "Profile retrieved successfully", output.User)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, response.HealthResponse{Status: "ok"})
}
