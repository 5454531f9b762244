// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/constants"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	publisher    service.EventPublisher
	now          func() time.Time
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Publisher    service.EventPublisher
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		publisher:    params.Publisher,
		now:          time.Now,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register hashes the password, stores the user and announces the new account.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationFailed.WithDetails(err.Error())
	}

	user := &entity.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		PhoneNumber:  input.PhoneNumber,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to store user", slog.String("email", input.Email), slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationFailed.WithDetails(err.Error())
	}

	srv.publishRegistered(ctx, user)
	srv.log(ctx).Debug("Registration completed", slog.String("userID", user.ID))

	return &usecase.RegisterOutput{User: user}, nil
}

// publishRegistered emits account.registered. A failed publish leaves the stored user in place.
func (srv *accountService) publishRegistered(ctx context.Context, user *entity.User) {
	if srv.publisher == nil {
		return
	}

	event := &service.AccountEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		EventType:  constants.EventTypeAccountRegistered,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: srv.now().UTC(),
	}

	if err := srv.publisher.PublishAccountEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish account event",
			slog.String("event_type", event.EventType),
			slog.String("userID", user.ID),
			slog.Any("error", err),
		)
	}
}

// Login checks the credentials of the first user stored under the email and issues a session token.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindOne(ctx, repository.UserFilter{Email: input.Email})
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Info("Login attempt for unknown email", slog.String("email", input.Email))

		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		srv.log(ctx).Error("Failed to look up user for login", slog.Any("error", err))

		return nil, domainerrors.ErrLoginFailed.WithDetails(err.Error())
	}

	ok, err := srv.hasher.Check(input.Password, user.PasswordHash)
	if err != nil {
		srv.log(ctx).Error("Failed to check password", slog.String("userID", user.ID), slog.Any("error", err))

		return nil, domainerrors.ErrLoginFailed.WithDetails(err.Error())
	}
	if !ok {
		srv.log(ctx).Info("Password mismatch", slog.String("userID", user.ID))

		return nil, domainerrors.ErrIncorrectPassword
	}

	token, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.String("userID", user.ID), slog.Any("error", err))

		return nil, domainerrors.ErrLoginFailed.WithDetails(err.Error())
	}

	srv.log(ctx).Debug("Login successful", slog.String("userID", user.ID))

	return &usecase.LoginOutput{Token: token, User: user}, nil
}

// ListUsers returns every stored user.
func (srv *accountService) ListUsers(ctx context.Context) (*usecase.ListUsersOutput, error) {
	users, err := srv.userRepo.FindAll(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to fetch users", slog.Any("error", err))

		return nil, domainerrors.ErrUsersFetchFailed.WithDetails(err.Error())
	}

	return &usecase.ListUsersOutput{Users: users}, nil
}

// Profile resolves a session token to the user it was issued for.
func (srv *accountService) Profile(ctx context.Context, token string) (*usecase.ProfileOutput, error) {
	userID, err := srv.tokenService.Verify(token)
	if err != nil {
		srv.log(ctx).Info("Rejected session token", slog.Any("error", err))

		return nil, err
	}

	user, err := srv.userRepo.FindOne(ctx, repository.UserFilter{ID: userID})
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrProfileNotFound
	}
	if err != nil {
		srv.log(ctx).Error("Failed to load profile", slog.String("userID", userID), slog.Any("error", err))

		return nil, domainerrors.ErrInternalError.WithDetails(err.Error())
	}

	return &usecase.ProfileOutput{User: user}, nil
}
