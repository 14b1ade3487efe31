package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aryan0dhankhar/leaddesk/internal/apiclient"
	"github.com/aryan0dhankhar/leaddesk/internal/board"
	"github.com/aryan0dhankhar/leaddesk/internal/domain"
	"github.com/aryan0dhankhar/leaddesk/internal/featureflags"
	"github.com/aryan0dhankhar/leaddesk/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/leaddesk/internal/repository"
	"github.com/aryan0dhankhar/leaddesk/internal/security/audit"
	"github.com/aryan0dhankhar/leaddesk/internal/service"
	"github.com/aryan0dhankhar/leaddesk/internal/session"
	"github.com/aryan0dhankhar/leaddesk/internal/tenant"
	"github.com/aryan0dhankhar/leaddesk/pkg/config"
)

// Options adjusts how a Context is built
type Options struct {
	TenantOverride string         // Acts as ?tenant= on the app location
	Storage        domain.Storage // Replaces the configured storage when set
	Flags          *featureflags.Flags
	OnRedirect     func() // Called when the backend ends the session
}

// Context holds every collaborator of one CLI invocation
type Context struct {
	Config    *config.Config
	Logger    *slog.Logger
	Storage   domain.Storage
	Sessions  *repository.SessionRepository
	Navigator *tenant.MemoryNavigator
	Registry  *tenant.Registry
	Resolver  *tenant.Resolver
	API       *apiclient.Client
	Auth      *session.Store
	Leads     *service.LeadService
	LeadCache *board.LeadCache
	Audit     *audit.Logger

	closers []func() error
}

// New builds the application context from cfg
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Context, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Flags == nil {
		opts.Flags = featureflags.New(nil)
	}

	c := &Context{Config: cfg, Logger: logger, Audit: audit.NewLogger(logger)}

	storage := opts.Storage
	if storage == nil {
		var err error
		if storage, err = c.openStorage(ctx); err != nil {
			return nil, err
		}
	}
	c.Storage = storage
	c.Sessions = repository.NewSessionRepository(storage, logger)

	location, err := appLocation(cfg.AppURL, opts.TenantOverride)
	if err != nil {
		return nil, err
	}
	onRedirect := opts.OnRedirect
	if onRedirect == nil {
		onRedirect = func() {
			logger.Warn("session ended by the backend, run `leaddesk auth login` to sign in again")
		}
	}
	c.Navigator = tenant.NewMemoryNavigator(location, onRedirect)
	c.Registry = tenant.NewRegistry()
	c.Resolver = tenant.NewResolver(c.Sessions, c.Navigator, c.Registry, cfg.DefaultTenant, logger)

	c.API = apiclient.NewClient(apiclient.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.HTTPTimeout,
	}, c.Sessions, c.Navigator, c.Audit, logger)

	demo := cfg.IsDevelopment() || opts.Flags.Enabled(featureflags.DemoLogin)
	c.Auth = session.NewStore(c.API, c.Sessions, c.Resolver, session.Options{
		DemoLogin:  demo,
		DemoSecret: cfg.DemoSecret,
	}, c.Audit, logger)
	c.Leads = service.NewLeadService(c.API, c.Registry, logger)
	c.LeadCache = board.NewLeadCache()

	logger.Debug("application context ready",
		slog.String("storage", cfg.Storage),
		slog.String("api_url", cfg.APIURL),
		slog.Bool("demo_login", demo),
	)
	return c, nil
}

func (c *Context) openStorage(ctx context.Context) (domain.Storage, error) {
	switch c.Config.Storage {
	case config.StorageMemory:
		return repository.NewMemoryStorage(), nil
	case config.StorageRedis:
		client, err := redis.NewClient(ctx, c.Config.RedisURL, c.Config.RedisPrefix, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		c.closers = append(c.closers, client.Close)
		return repository.NewRedisStorage(client), nil
	default:
		return repository.NewFileStorage(c.Config.StoragePath, c.Logger), nil
	}
}

func appLocation(raw, tenantOverride string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid app url: %w", err)
	}
	if t := strings.TrimSpace(tenantOverride); t != "" {
		q := u.Query()
		q.Set(tenant.QueryParam, t)
		u.RawQuery = q.Encode()
	}
	return u, nil
}

// Tenant resolves the active tenant key
func (c *Context) Tenant(ctx context.Context) string {
	return c.Resolver.Resolve(ctx)
}

// Board returns a leads board for the active tenant
func (c *Context) Board(ctx context.Context) *board.Board {
	return board.New(c.Leads, c.LeadCache, c.Config.BoardCacheTTL, c.Tenant(ctx), c.Logger)
}

// SwitchTenant changes the selection and drops cached lists of the previous tenant
func (c *Context) SwitchTenant(ctx context.Context, key string, preserveAuth bool) (bool, error) {
	previous := c.Tenant(ctx)
	cleared, err := c.Auth.SwitchTenant(ctx, key, preserveAuth)
	if err != nil {
		return false, err
	}
	board.InvalidateTenant(c.LeadCache, previous)
	return cleared, nil
}

// Close releases storage connections
func (c *Context) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
