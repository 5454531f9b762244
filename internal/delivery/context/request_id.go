// Package context carries per-request account data between echo handlers and the
// account service: the request id, the request-scoped logger and the session token.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey namespaces the values this package stores on a request.
type ContextKey string

const (
	// KeyRequestID correlates log lines and account events for one request.
	KeyRequestID ContextKey = "request_id"

	// KeyLogger holds the logger tagged with the request id.
	KeyLogger ContextKey = "logger"

	// KeyBearerToken is the key for the session token presented by the client.
	KeyBearerToken ContextKey = "bearer_token"

	// HeaderXRequestID is read from clients and echoed on every response.
	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID returns the id set by the request-id middleware, or a fresh UUID.
func GetRequestID(c echo.Context) string {
	val := c.Get(string(KeyRequestID))
	if id, ok := val.(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID records the request id on the echo context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext returns the request id the account service stamps on
// published events, or "" outside a request.
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

// WithRequestID returns ctx carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLogger returns the request-scoped logger, or nil.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok {
		return logger
	}

	return nil
}

// GetLoggerOrDefault returns the request-scoped logger, falling back to the
// component's own logger for work started outside a request.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

// WithLogger returns ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// SetBearerToken stores the session token extracted from the Authorization header.
func SetBearerToken(c echo.Context, token string) {
	c.Set(string(KeyBearerToken), token)
}

// GetBearerToken returns the session token stored by the auth middleware, or "".
func GetBearerToken(c echo.Context) string {
	token, _ := c.Get(string(KeyBearerToken)).(string)

	return token
}
