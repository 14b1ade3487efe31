package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aryan0dhankhar/leaddesk/internal/apiclient"
	"github.com/aryan0dhankhar/leaddesk/internal/domain"
	"github.com/aryan0dhankhar/leaddesk/internal/observability/metrics"
	"github.com/aryan0dhankhar/leaddesk/internal/observability/tracing"
	"github.com/aryan0dhankhar/leaddesk/internal/repository"
	"github.com/aryan0dhankhar/leaddesk/internal/security/audit"
	"github.com/aryan0dhankhar/leaddesk/internal/security/auth"
	"github.com/aryan0dhankhar/leaddesk/internal/tenant"
	"github.com/aryan0dhankhar/leaddesk/internal/validation"
)

// DemoTokenTTL is the lifetime of locally minted demo tokens
const DemoTokenTTL = 24 * time.Hour

// Requester sends backend requests; *apiclient.Client implements it
type Requester interface {
	Do(ctx context.Context, req apiclient.Request, out any) error
}

// Options configures a Store
type Options struct {
	DemoLogin  bool   // Fall back to the demo table when the backend is unreachable
	DemoSecret string // Signing key for demo tokens
	DemoUsers  *auth.UserStore
}

// Store owns the session lifecycle
type Store struct {
	api      Requester
	sessions *repository.SessionRepository
	resolver *tenant.Resolver
	registry *tenant.Registry
	demo     *auth.UserStore
	tokens   *auth.TokenManager
	audit    *audit.Logger
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore creates a new session store
func NewStore(api Requester, sessions *repository.SessionRepository, resolver *tenant.Resolver, opts Options, auditLogger *audit.Logger, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if auditLogger == nil {
		auditLogger = audit.NewLogger(logger)
	}
	s := &Store{
		api:      api,
		sessions: sessions,
		resolver: resolver,
		registry: resolver.Registry(),
		tokens:   auth.NewTokenManager(opts.DemoSecret, "leaddesk-demo"),
		audit:    auditLogger,
		logger:   logger,
		now:      time.Now,
	}
	if opts.DemoLogin {
		s.demo = opts.DemoUsers
		if s.demo == nil {
			s.demo = auth.NewUserStore()
		}
	}
	return s
}

// Restore loads the stored session. Corrupt profiles and expired tokens clear it.
func (s *Store) Restore(ctx context.Context) (*domain.Session, error) {
	sess, err := s.sessions.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrCorruptSession):
		s.expire(ctx, "", "corrupt", "stored user is not valid json")
		return nil, domain.ErrNoSession
	case err != nil:
		return nil, err
	}

	if claims, err := auth.ParseUnverified(sess.Token); err == nil && claims.Expired(s.now()) {
		s.expire(ctx, sess.TenantID, "expired", "token expired")
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

// Current returns the active session or domain.ErrNoSession
func (s *Store) Current(ctx context.Context) (*domain.Session, error) {
	return s.Restore(ctx)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	TenantID    string `json:"tenantId"`
	User        struct {
		ID        string `json:"id"`
		MongoID   string `json:"_id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Tenant    string `json:"tenant"`
		TenantID  string `json:"tenantId"`
	} `json:"user"`
}

// Login authenticates against the backend under tenantKey and stores the session
func (s *Store) Login(ctx context.Context, email, password, tenantKey string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if err := validation.Login(validation.LoginInput{Email: email, Password: password, Tenant: tenantKey}); err != nil {
		metrics.ObserveSessionEvent("login", "invalid")
		return nil, err
	}

	backendID := s.registry.BackendID(tenantKey)
	ctx, span := tracing.Start(ctx, "session.login", backendID)
	defer span.End()

	var resp loginResponse
	err := s.api.Do(ctx, apiclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      loginRequest{Email: email, Password: password},
		Tenant:    backendID,
		Anonymous: true,
	}, &resp)
	if err != nil {
		if errors.Is(err, apiclient.ErrNetwork) && s.demo != nil {
			return s.demoLogin(ctx, email, password, tenantKey, backendID)
		}
		authErr := loginError(err)
		s.logger.Warn("login failed",
			slog.String("tenant_id", backendID),
			slog.String("email", email),
			slog.Int("status", authErr.StatusCode),
			slog.String("error", err.Error()),
		)
		s.audit.LogLogin(ctx, backendID, email, "failure", authErr.Message)
		metrics.ObserveSessionEvent("login", "failure")
		return nil, authErr
	}

	sess, err := s.sessionFromResponse(&resp, backendID)
	if err != nil {
		s.audit.LogLogin(ctx, backendID, email, "failure", err.Error())
		metrics.ObserveSessionEvent("login", "failure")
		return nil, &AuthError{Message: MsgLoginFailed, Err: err}
	}

	selected := tenantKey
	if sess.TenantID != backendID {
		selected = s.registry.KeyForBackend(sess.TenantID, tenantKey)
		s.logger.Warn("backend reported a different tenant, using it",
			slog.String("requested_tenant", backendID),
			slog.String("server_tenant", sess.TenantID),
			slog.String("selected_tenant", selected),
		)
		s.audit.LogAction(ctx, sess.TenantID, sess.User.ID, "login_tenant_override", "success", "requested="+backendID)
	}
	if err := s.establish(ctx, sess, selected); err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.String("tenant_id", sess.TenantID), slog.String("user_id", sess.User.ID))
	s.audit.LogLogin(ctx, sess.TenantID, sess.User.ID, "success", "")
	metrics.ObserveSessionEvent("login", "success")
	return sess, nil
}

func (s *Store) sessionFromResponse(resp *loginResponse, backendID string) (*domain.Session, error) {
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}

	tenantID := firstNonEmpty(resp.TenantID, resp.User.TenantID, resp.User.Tenant)
	if tenantID == "" {
		if claims, err := auth.ParseUnverified(token); err == nil {
			tenantID = claims.Tenant()
		}
	}
	if tenantID == "" {
		tenantID = backendID
	}

	u := resp.User
	user := domain.User{
		ID:        firstNonEmpty(u.ID, u.MongoID),
		Email:     u.Email,
		Name:      u.Name,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Tenant:    tenantID,
	}
	if user.Name == "" {
		user.Name = strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	return &domain.Session{Token: token, TenantID: tenantID, User: user}, nil
}

func (s *Store) demoLogin(ctx context.Context, email, password, tenantKey, backendID string) (*domain.Session, error) {
	demoUser, err := s.demo.Authenticate(email, password, backendID)
	if err != nil {
		s.logger.Warn("backend unreachable and demo login rejected",
			slog.String("tenant_id", backendID),
			slog.String("error", err.Error()),
		)
		s.audit.LogLogin(ctx, backendID, email, "failure", "demo: "+err.Error())
		metrics.ObserveSessionEvent("login", "failure")
		return nil, &AuthError{Message: MsgServerUnreachable, Err: apiclient.ErrNetwork}
	}

	token, err := s.tokens.GenerateToken(demoUser.TenantID, demoUser.ID, demoUser.Email, DemoTokenTTL)
	if err != nil {
		return nil, &AuthError{Message: MsgLoginFailed, Err: err}
	}
	sess := &domain.Session{
		Token:    token,
		TenantID: demoUser.TenantID,
		User: domain.User{
			ID:        demoUser.ID,
			Email:     demoUser.Email,
			Name:      demoUser.Name,
			FirstName: demoUser.FirstName,
			LastName:  demoUser.LastName,
			Tenant:    demoUser.TenantID,
		},
	}
	if err := s.establish(ctx, sess, tenantKey); err != nil {
		return nil, err
	}

	s.logger.Info("demo login", slog.String("tenant_id", sess.TenantID), slog.String("user_id", sess.User.ID))
	s.audit.LogLogin(ctx, sess.TenantID, sess.User.ID, "success", "demo")
	metrics.ObserveSessionEvent("login", "demo")
	return sess, nil
}

// establish persists the session and selection
func (s *Store) establish(ctx context.Context, sess *domain.Session, tenantKey string) error {
	if err := s.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := s.resolver.Select(ctx, tenantKey); err != nil {
		return fmt.Errorf("failed to store tenant selection: %w", err)
	}
	return nil
}

// RegisterResult is the outcome of a successful registration
type RegisterResult struct {
	Message  string
	TenantID string
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	TenantID  string `json:"tenantId"`
}

// Register creates an account under the chosen tenant. It does not log in.
func (s *Store) Register(ctx context.Context, in validation.RegisterInput) (*RegisterResult, error) {
	if err := validation.Register(in); err != nil {
		metrics.ObserveSessionEvent("register", "invalid")
		return nil, err
	}

	backendID := s.registry.BackendID(in.Tenant)
	ctx, span := tracing.Start(ctx, "session.register", backendID)
	defer span.End()

	var resp struct {
		Message string `json:"message"`
	}
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body: registerRequest{
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Email:     strings.TrimSpace(in.Email),
			Password:  in.Password,
			TenantID:  backendID,
		},
		Tenant:    backendID,
		Anonymous: true,
	}, &resp)
	if err != nil {
		authErr := registerError(err)
		s.logger.Warn("registration failed",
			slog.String("tenant_id", backendID),
			slog.Int("status", authErr.StatusCode),
			slog.String("error", err.Error()),
		)
		s.audit.LogAction(ctx, backendID, in.Email, "register", "failure", authErr.Message)
		metrics.ObserveSessionEvent("register", "failure")
		return nil, authErr
	}

	msg := resp.Message
	if msg == "" {
		msg = MsgRegistered
	}
	s.audit.LogAction(ctx, backendID, in.Email, "register", "success", "")
	metrics.ObserveSessionEvent("register", "success")
	return &RegisterResult{Message: msg, TenantID: backendID}, nil
}

// Logout removes the stored credentials. The tenant selection is kept.
func (s *Store) Logout(ctx context.Context) error {
	tenantID, _ := s.sessions.TenantID(ctx)
	userID := ""
	if sess, err := s.sessions.Load(ctx); err == nil {
		userID = sess.User.ID
	}
	if err := s.sessions.Clear(ctx); err != nil {
		metrics.ObserveSessionEvent("logout", "failure")
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.audit.LogLogout(ctx, tenantID, userID)
	metrics.ObserveSessionEvent("logout", "success")
	return nil
}

// SwitchTenant selects key. Without preserveAuth, a session issued under a
// different backend tenant is cleared. It reports whether it cleared one.
func (s *Store) SwitchTenant(ctx context.Context, key string, preserveAuth bool) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, fmt.Errorf("tenant key is required")
	}
	from := s.resolver.Resolve(ctx)

	sess, err := s.sessions.Load(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoSession) {
		s.logger.Warn("failed to read session during tenant switch", slog.String("error", err.Error()))
		sess = nil
	}

	if err := s.resolver.Select(ctx, key); err != nil {
		return false, err
	}

	cleared := false
	userID := ""
	if sess != nil {
		userID = sess.User.ID
		if sess.TenantID != s.registry.BackendID(key) && !preserveAuth {
			if err := s.sessions.Clear(ctx); err != nil {
				return false, fmt.Errorf("failed to clear session: %w", err)
			}
			cleared = true
		}
	}

	s.logger.Info("tenant switched",
		slog.String("from", from),
		slog.String("to", key),
		slog.Bool("session_cleared", cleared),
	)
	s.audit.LogTenantSwitch(ctx, from, key, userID, cleared)
	result := "kept"
	if cleared {
		result = "cleared"
	}
	metrics.ObserveSessionEvent("switch_tenant", result)
	return cleared, nil
}

func (s *Store) expire(ctx context.Context, tenantID, result, reason string) {
	s.logger.Warn("clearing stored session", slog.String("reason", reason))
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Error("failed to clear session", slog.String("error", err.Error()))
	}
	s.audit.LogSessionExpired(ctx, tenantID, reason)
	metrics.ObserveSessionEvent("restore", result)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
