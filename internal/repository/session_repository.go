package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/leaddesk/internal/domain"
)

// ErrCorruptSession is returned when the stored user profile cannot be decoded
var ErrCorruptSession = errors.New("stored session is corrupt")

// SessionRepository reads and writes session keys on a domain.Storage
type SessionRepository struct {
	storage domain.Storage
	logger  *slog.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(storage domain.Storage, logger *slog.Logger) *SessionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionRepository{storage: storage, logger: logger}
}

// Token returns the stored bearer token, or "" when absent
func (r *SessionRepository) Token(ctx context.Context) (string, error) {
	return r.optional(ctx, domain.KeyAuthToken)
}

// TenantID returns the backend tenant of the stored token, or ""
func (r *SessionRepository) TenantID(ctx context.Context) (string, error) {
	return r.optional(ctx, domain.KeyTenantID)
}

// SelectedTenant returns the stored tenant selection, or ""
func (r *SessionRepository) SelectedTenant(ctx context.Context) (string, error) {
	return r.optional(ctx, domain.KeySelectedTenant)
}

// SetSelectedTenant stores the tenant selection
func (r *SessionRepository) SetSelectedTenant(ctx context.Context, key string) error {
	if err := r.storage.Set(ctx, domain.KeySelectedTenant, key); err != nil {
		return fmt.Errorf("failed to store selected tenant: %w", err)
	}
	return nil
}

// Load returns the stored session. It returns domain.ErrNoSession when any of
// token, tenant or user is missing and ErrCorruptSession when the user is not valid JSON.
func (r *SessionRepository) Load(ctx context.Context) (*domain.Session, error) {
	token, err := r.Token(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := r.TenantID(ctx)
	if err != nil {
		return nil, err
	}
	rawUser, err := r.optional(ctx, domain.KeyUser)
	if err != nil {
		return nil, err
	}
	if token == "" || tenantID == "" || rawUser == "" {
		return nil, domain.ErrNoSession
	}

	var user domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}

	return &domain.Session{Token: token, TenantID: tenantID, User: user}, nil
}

// Save stores token, tenant and user
func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	rawUser, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := r.storage.Set(ctx, domain.KeyAuthToken, s.Token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if err := r.storage.Set(ctx, domain.KeyTenantID, s.TenantID); err != nil {
		return fmt.Errorf("failed to store tenant: %w", err)
	}
	if err := r.storage.Set(ctx, domain.KeyUser, string(rawUser)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// Clear removes token, tenant and user. The tenant selection is kept.
func (r *SessionRepository) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{domain.KeyAuthToken, domain.KeyTenantID, domain.KeyUser} {
		if err := r.storage.Remove(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", key, err))
		}
	}
	if len(errs) > 0 {
		r.logger.Error("failed to clear session", slog.String("error", errors.Join(errs...).Error()))
	}
	return errors.Join(errs...)
}

func (r *SessionRepository) optional(ctx context.Context, key string) (string, error) {
	v, err := r.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}
