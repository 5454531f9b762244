package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"accounts/config"
	"accounts/internal/domain/constants"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	mockRepo "accounts/internal/mocks/repository"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newTestPushHandler(t *testing.T, cfg *config.Config) (*PushHandler, *mockRepo.MockUserRepository) {
	t.Helper()

	userRepo := mockRepo.NewMockUserRepository(t)
	h := NewPushHandler(PushHandlerParams{
		Config:   cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		UserRepo: userRepo,
	})

	return h, userRepo
}

func pushBody(t *testing.T, event *service.AccountEvent) string {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg PubSubMessage
	msg.Subscription = "projects/local/subscriptions/accounts-sub"
	msg.Message.MessageID = "msg-1"
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.Attributes = map[string]string{"request_id": "req-1"}

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func servePush(h *PushHandler, body string, header http.Header) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for key, values := range header {
		req.Header[key] = values
	}
	rec := httptest.NewRecorder()

	_ = h.HandlePush(e.NewContext(req, rec))

	return rec
}

func registeredEvent() *service.AccountEvent {
	return &service.AccountEvent{
		RequestID:  "req-1",
		EventType:  constants.EventTypeAccountRegistered,
		UserID:     "user-1",
		Email:      "jane@x.com",
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPushHandler_HandlePush(t *testing.T) {
	stored := &entity.User{ID: "user-1", Email: "jane@x.com"}

	tests := []struct {
		name       string
		body       func(t *testing.T) string
		setup      func(repo *mockRepo.MockUserRepository)
		wantStatus int
	}{
		{
			name: "registration confirmed",
			body: func(t *testing.T) string { return pushBody(t, registeredEvent()) },
			setup: func(repo *mockRepo.MockUserRepository) {
				repo.EXPECT().FindOne(mock.Anything, repository.UserFilter{ID: "user-1"}).Return(stored, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "store failure is retried",
			body: func(t *testing.T) string { return pushBody(t, registeredEvent()) },
			setup: func(repo *mockRepo.MockUserRepository) {
				repo.EXPECT().FindOne(mock.Anything, repository.UserFilter{ID: "user-1"}).
					Return(nil, domainerrors.NewStoreError(errors.New("timeout"), "failed to find user"))
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "unknown user is acknowledged",
			body: func(t *testing.T) string { return pushBody(t, registeredEvent()) },
			setup: func(repo *mockRepo.MockUserRepository) {
				repo.EXPECT().FindOne(mock.Anything, repository.UserFilter{ID: "user-1"}).Return(nil, repository.ErrUserNotFound)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unknown event type is acknowledged",
			body: func(t *testing.T) string {
				event := registeredEvent()
				event.EventType = "account.deleted"

				return pushBody(t, event)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed envelope",
			body:       func(t *testing.T) string { return `{"message":` },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "data is not base64",
			body:       func(t *testing.T) string { return `{"message":{"data":"%%%"}}` },
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "data is not an event",
			body: func(t *testing.T) string {
				return `{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte("not json")) + `"}}`
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := newTestPushHandler(t, &config.Config{})
			if tt.setup != nil {
				tt.setup(repo)
			}

			rec := servePush(h, tt.body(t), nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestPushHandler_ExtractRequestID(t *testing.T) {
	h, _ := newTestPushHandler(t, &config.Config{})

	msg := &PubSubMessage{}
	event := &service.AccountEvent{}
	ctx := context.Background()

	msg.Message.Attributes = map[string]string{"request_id": "from-attr"}
	event.RequestID = "from-event"
	assert.Equal(t, "from-attr", h.extractRequestID(ctx, msg, event))

	msg.Message.Attributes = nil
	assert.Equal(t, "from-event", h.extractRequestID(ctx, msg, event))

	event.RequestID = ""
	assert.Len(t, h.extractRequestID(ctx, msg, event), 36)
}

func TestPushHandler_VerifyPushAuth(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle}}
	cfg.Env.Env = "production"

	tests := []struct {
		name       string
		header     string
		payload    *idtoken.Payload
		validErr   error
		wantStatus int
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "validation failure",
			header:     "Bearer token",
			validErr:   errors.New("token expired"),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong issuer",
			header:     "Bearer token",
			payload:    &idtoken.Payload{Issuer: "https://evil.example.com"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unverified email",
			header:     "Bearer token",
			payload:    &idtoken.Payload{Issuer: "accounts.google.com", Claims: map[string]any{"email_verified": false}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			header:     "Bearer token",
			payload:    &idtoken.Payload{Issuer: "https://accounts.google.com", Claims: map[string]any{"email_verified": true}},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := newTestPushHandler(t, cfg)
			require.True(t, h.verifyPushAuth)

			h.validateToken = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
				assert.Equal(t, "token", token)
				assert.Equal(t, "http://example.com/push", audience)

				return tt.payload, tt.validErr
			}
			if tt.wantStatus == http.StatusOK {
				repo.EXPECT().FindOne(mock.Anything, repository.UserFilter{ID: "user-1"}).
					Return(&entity.User{ID: "user-1", Email: "jane@x.com"}, nil)
			}

			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}

			rec := servePush(h, pushBody(t, registeredEvent()), header)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestNewPushHandler_SkipsAuthInDevelop(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle}}
	cfg.Env.Env = constants.EnvDevelop

	h, _ := newTestPushHandler(t, cfg)
	assert.False(t, h.verifyPushAuth)

	h, _ = newTestPushHandler(t, &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderLocal}})
	assert.False(t, h.verifyPushAuth)
}
