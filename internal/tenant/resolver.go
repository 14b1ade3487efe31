package tenant

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"

	"github.com/aryan0dhankhar/leaddesk/internal/repository"
)

// QueryParam is the URL query parameter carrying the tenant
const QueryParam = "tenant"

// Navigator is the port standing in for the browser location
type Navigator interface {
	Location() *url.URL
	Replace(u *url.URL)
	RedirectToLogin()
}

// Source names the signal a tenant was resolved from
type Source string

const (
	SourceStorage   Source = "storage"
	SourceQuery     Source = "query"
	SourceSubdomain Source = "subdomain"
	SourceDefault   Source = "default"
)

// Resolver determines the active tenant
type Resolver struct {
	sessions   *repository.SessionRepository
	nav        Navigator
	registry   *Registry
	defaultKey string
	logger     *slog.Logger
}

// NewResolver creates a tenant resolver
func NewResolver(sessions *repository.SessionRepository, nav Navigator, registry *Registry, defaultKey string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultKey == "" {
		defaultKey = DefaultKey
	}
	return &Resolver{
		sessions:   sessions,
		nav:        nav,
		registry:   registry,
		defaultKey: defaultKey,
		logger:     logger,
	}
}

// Registry returns the tenant registry used by the resolver
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve returns the active tenant key and keeps the URL query in sync with it
func (r *Resolver) Resolve(ctx context.Context) string {
	key, source := r.ResolveWithSource(ctx)
	r.syncURL(key)
	r.logger.Debug("tenant resolved", slog.String("tenant", key), slog.String("source", string(source)))
	return key
}

// ResolveWithSource returns the active tenant key and where it came from, without side effects.
// Precedence: stored selection, URL query, subdomain, default.
func (r *Resolver) ResolveWithSource(ctx context.Context) (string, Source) {
	if stored, err := r.sessions.SelectedTenant(ctx); err != nil {
		r.logger.Warn("failed to read selected tenant", slog.String("error", err.Error()))
	} else if stored != "" {
		return stored, SourceStorage
	}

	loc := r.nav.Location()
	if loc != nil {
		if q := loc.Query().Get(QueryParam); q != "" {
			return q, SourceQuery
		}
		if sub := SubdomainTenant(loc.Hostname()); sub != "" {
			return sub, SourceSubdomain
		}
	}

	return r.defaultKey, SourceDefault
}

// Select stores key as the tenant selection and syncs the URL
func (r *Resolver) Select(ctx context.Context, key string) error {
	if err := r.sessions.SetSelectedTenant(ctx, key); err != nil {
		return err
	}
	r.syncURL(key)
	return nil
}

// BackendID returns the backend id of the active tenant
func (r *Resolver) BackendID(ctx context.Context) string {
	return r.registry.BackendID(r.Resolve(ctx))
}

func (r *Resolver) syncURL(key string) {
	loc := r.nav.Location()
	if loc == nil {
		return
	}
	q := loc.Query()
	if q.Get(QueryParam) == key {
		return
	}
	next := *loc
	q.Set(QueryParam, key)
	next.RawQuery = q.Encode()
	r.nav.Replace(&next)
}

// SubdomainTenant returns the first label of a host with more than two labels.
// IP addresses never carry a tenant.
func SubdomainTenant(host string) string {
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}
	parts := strings.Split(host, ".")
	if len(parts) > 2 {
		return parts[0]
	}
	return ""
}

// MemoryNavigator is a Navigator holding the location in memory
type MemoryNavigator struct {
	mu         sync.Mutex
	location   *url.URL
	onRedirect func()
	redirects  int
}

// NewMemoryNavigator creates a navigator at the given location.
// onRedirect is called on RedirectToLogin and may be nil.
func NewMemoryNavigator(location *url.URL, onRedirect func()) *MemoryNavigator {
	if location == nil {
		location = &url.URL{}
	}
	return &MemoryNavigator{location: location, onRedirect: onRedirect}
}

// Location returns a copy of the current location
func (n *MemoryNavigator) Location() *url.URL {
	n.mu.Lock()
	defer n.mu.Unlock()
	u := *n.location
	return &u
}

// Replace swaps the current location
func (n *MemoryNavigator) Replace(u *url.URL) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := *u
	n.location = &c
}

// RedirectToLogin moves to /login and notifies the callback
func (n *MemoryNavigator) RedirectToLogin() {
	n.mu.Lock()
	u := *n.location
	u.Path = "/login"
	n.location = &u
	n.redirects++
	cb := n.onRedirect
	n.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Redirects returns how many times RedirectToLogin was called
func (n *MemoryNavigator) Redirects() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.redirects
}
