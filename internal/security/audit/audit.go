package audit

import (
	"context"
	"log/slog"
	"time"
)

type requestIDKey struct{}

// WithRequestID stores a correlation id that audit lines pick up
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id stored in ctx, or ""
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, tenantID, userID, action, status, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("tenant_id", tenantID),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("details", details),
		slog.String("request_id", RequestID(ctx)),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogLogin(ctx context.Context, tenantID, userID, status, details string) {
	al.LogAction(ctx, tenantID, userID, "login", status, details)
}

func (al *Logger) LogLogout(ctx context.Context, tenantID, userID string) {
	al.LogAction(ctx, tenantID, userID, "logout", "success", "")
}

func (al *Logger) LogTenantSwitch(ctx context.Context, from, to, userID string, cleared bool) {
	details := "session kept"
	if cleared {
		details = "session cleared"
	}
	al.LogAction(ctx, to, userID, "switch_tenant", "success", "from="+from+" "+details)
}

func (al *Logger) LogSessionExpired(ctx context.Context, tenantID, reason string) {
	al.LogAction(ctx, tenantID, "", "session_expired", "cleared", reason)
}

func (al *Logger) LogDenied(ctx context.Context, tenantID, userID, reason string) {
	al.LogAction(ctx, tenantID, userID, "access_denied", "denied", reason)
}
