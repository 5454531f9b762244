package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"accounts/config"
	apimiddleware "accounts/internal/delivery/api/middleware"
	"accounts/internal/delivery/api/router"
	"accounts/internal/delivery/api/router/handler"
	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/infra/auth"
	"accounts/internal/infra/pubsub"
	"accounts/internal/usecase/impl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"golang.org/x/crypto/bcrypt"
)

// memoryUserRepository keeps users in insertion order.
type memoryUserRepository struct {
	mu    sync.Mutex
	users []*entity.User
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	stored := *user
	r.users = append(r.users, &stored)

	return nil
}

func (r *memoryUserRepository) FindOne(_ context.Context, filter repository.UserFilter) (*entity.User, error) {
	if filter.IsZero() {
		return nil, repository.ErrUserNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if (filter.ID == "" || filter.ID == user.ID) && (filter.Email == "" || filter.Email == user.Email) {
			found := *user

			return &found, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memoryUserRepository) FindAll(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*entity.User, 0, len(r.users))
	for _, user := range r.users {
		found := *user
		users = append(users, &found)
	}

	return users, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.SecretKey.Access = "test-secret"

	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	lc := fxtest.NewLifecycle(t)
	publisher, err := pubsub.NewEventPublisher(pubsub.PublisherParams{
		Lc:     lc,
		Ctx:    context.Background(),
		Config: cfg,
		Logger: logger,
	})
	require.NoError(t, err)

	accounts := impl.NewAccountService(impl.AccountServiceParams{
		UserRepo:     &memoryUserRepository{},
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokenService,
		Publisher:    publisher,
		Logger:       logger,
	})

	e, err := newEcho(ServerParams{
		Lc:     lc,
		Cfg:    cfg,
		Logger: logger,
		RouterParams: router.RouterParams{
			AccountHandler: handler.NewAccountHandler(accounts, logger),
			AuthMiddleware: apimiddleware.NewAuthMiddleware(logger),
		},
	})
	require.NoError(t, err)

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return server
}

func postJSON(t *testing.T, server *httptest.Server, path, body string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Post(server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	return resp.StatusCode, decoded
}

func TestServer_AccountFlow(t *testing.T) {
	server := newTestServer(t)

	status, body := postJSON(t, server, "/register",
		`{"firstName":"Jane","lastName":"Doe","email":"jane@x.com","password":"p@ss","phoneNumber":"555-0100"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User registered successfully!", body["message"])

	status, body = postJSON(t, server, "/login", `{"email":"jane@x.com","password":"p@ss"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", body["message"])
	token, ok := body["token"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	status, body = postJSON(t, server, "/login", `{"email":"jane@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"message": "Incorrect password"}, body)

	status, body = postJSON(t, server, "/login", `{"email":"nobody@x.com","password":"p@ss"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"message": "User not found"}, body)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var profile map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "Profile retrieved successfully", profile["message"])
	assert.Equal(t, map[string]any{
		"id":          "user-1",
		"firstName":   "Jane",
		"lastName":    "Doe",
		"email":       "jane@x.com",
		"phoneNumber": "555-0100",
	}, profile["user"])
}

func TestServer_LoginWithoutEmail(t *testing.T) {
	server := newTestServer(t)

	status, _ := postJSON(t, server, "/register",
		`{"firstName":"Jane","lastName":"Doe","email":"jane@x.com","password":"p@ss"}`)
	require.Equal(t, http.StatusOK, status)

	for _, payload := range []string{`{"password":"p@ss"}`, `{"email":"","password":"p@ss"}`} {
		status, body := postJSON(t, server, "/login", payload)
		assert.Equal(t, http.StatusBadRequest, status, payload)
		assert.Equal(t, map[string]any{"message": "User not found"}, body, payload)
	}
}

func TestServer_LongPassword(t *testing.T) {
	server := newTestServer(t)
	passphrase := strings.Repeat("correct horse battery staple ", 3)
	require.Greater(t, len(passphrase), 72)

	status, body := postJSON(t, server, "/register",
		fmt.Sprintf(`{"firstName":"Jane","lastName":"Doe","email":"jane@x.com","password":%q}`, passphrase))
	require.Equal(t, http.StatusOK, status, body)

	status, body = postJSON(t, server, "/login", fmt.Sprintf(`{"email":"jane@x.com","password":%q}`, passphrase))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", body["message"])
}

func TestServer_UsersPage(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/users")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, strings.Count(string(body), "<tr>"))

	for _, name := range []string{"Jane", "John"} {
		status, _ := postJSON(t, server, "/register",
			fmt.Sprintf(`{"firstName":%q,"lastName":"Doe","email":"%s@x.com","password":"p@ss"}`, name, strings.ToLower(name)))
		require.Equal(t, http.StatusOK, status)
	}

	resp, err = http.Get(server.URL + "/users")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	page := string(body)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, 3, strings.Count(page, "<tr>"))
	assert.Less(t, strings.Index(page, "<td>Jane</td>"), strings.Index(page, "<td>John</td>"))
	assert.NotContains(t, page, "p@ss")
}

func TestServer_RequestIDHeader(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(deliverycontext.HeaderXRequestID, "trace-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "trace-123", resp.Header.Get(deliverycontext.HeaderXRequestID))
}

func TestServer_BodyLimit(t *testing.T) {
	server := newTestServer(t)

	oversized := fmt.Sprintf(`{"email":"jane@x.com","password":%q}`, strings.Repeat("a", 200*1024))
	status, body := postJSON(t, server, "/login", oversized)

	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "Request Entity Too Large", body["message"])
}
