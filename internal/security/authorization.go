package security

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrTenantMismatch is returned when a request would carry a token under a
// tenant other than the one it was issued for
var ErrTenantMismatch = errors.New("access denied: tenant does not match session")

// TenantGuard enforces that the tenant header of an authenticated request
// equals the tenant of the stored token
type TenantGuard struct {
	logger *slog.Logger
}

// NewTenantGuard creates a new tenant guard
func NewTenantGuard(logger *slog.Logger) *TenantGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantGuard{logger: logger}
}

// ValidateTenantAccess checks that the session tenant matches the requested tenant
func (g *TenantGuard) ValidateTenantAccess(sessionTenantID, requestedTenantID string) error {
	if sessionTenantID != requestedTenantID {
		g.logger.Warn("tenant access denied",
			slog.String("session_tenant", sessionTenantID),
			slog.String("requested_tenant", requestedTenantID),
		)
		return fmt.Errorf("%w: session is %q, request is %q", ErrTenantMismatch, sessionTenantID, requestedTenantID)
	}
	return nil
}
