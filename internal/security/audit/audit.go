package audit

import (
	"context"
	"log/slog"

	"github.com/chatterhq/chatter/internal/security/middleware"
)

// Logger records security-relevant actions (signups, logins, denials) in
// a uniform structured form.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates an audit logger on top of the app logger.
func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

// LogAction records one audited action against a resource.
func (al *Logger) LogAction(ctx context.Context, userID, action, resource, resourceID, status string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("request_id", middleware.RequestIDFromContext(ctx)),
	)
}

// LogSignup records an account creation attempt.
func (al *Logger) LogSignup(ctx context.Context, userID, status string) {
	al.LogAction(ctx, userID, "signup", "user", userID, status)
}

// LogLogin records a login attempt.
func (al *Logger) LogLogin(ctx context.Context, userID, status string) {
	al.LogAction(ctx, userID, "login", "user", userID, status)
}

// LogDenied records a rejected ownership check.
func (al *Logger) LogDenied(ctx context.Context, userID, resource, resourceID string) {
	al.LogAction(ctx, userID, "denied", resource, resourceID, "denied")
}
