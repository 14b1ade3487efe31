package tenant

import "github.com/aryan0dhankhar/leaddesk/internal/domain"

// DefaultKey is used when no storage, URL or hostname signal is present
const DefaultKey = "tenant1"

var knownTenants = []domain.Tenant{
	{Key: "default", Name: "Default Tenant", BackendID: "default"},
	{Key: "tenant1", Name: "Tenant 1 (TechNXT)", BackendID: "technxt", Registrable: true},
	{Key: "tenant2", Name: "Tenant 2 (Iorta)", BackendID: "iorta", Registrable: true},
	{Key: "demo", Name: "Demo Tenant", BackendID: "demo"},
	{Key: "test", Name: "Test Tenant", BackendID: "test"},
	{Key: "technxt", Name: "TechNXT", BackendID: "technxt"},
	{Key: "iorta", Name: "Iorta", BackendID: "iorta"},
}

// Registry knows the tenants offered by the client and their backend ids
type Registry struct {
	tenants []domain.Tenant
	byKey   map[string]domain.Tenant
}

// NewRegistry creates a registry of the built-in tenants
func NewRegistry() *Registry {
	return NewRegistryWith(knownTenants)
}

// NewRegistryWith creates a registry from an explicit tenant list
func NewRegistryWith(tenants []domain.Tenant) *Registry {
	r := &Registry{
		tenants: append([]domain.Tenant(nil), tenants...),
		byKey:   make(map[string]domain.Tenant, len(tenants)),
	}
	for _, t := range tenants {
		r.byKey[t.Key] = t
	}
	return r
}

// List returns all tenants in display order
func (r *Registry) List() []domain.Tenant {
	return append([]domain.Tenant(nil), r.tenants...)
}

// Registrable returns the tenants offered on the registration form
func (r *Registry) Registrable() []domain.Tenant {
	var out []domain.Tenant
	for _, t := range r.tenants {
		if t.Registrable {
			out = append(out, t)
		}
	}
	return out
}

// Lookup returns the tenant for key
func (r *Registry) Lookup(key string) (domain.Tenant, bool) {
	t, ok := r.byKey[key]
	return t, ok
}

// BackendID maps a tenant key to its backend identifier; unknown keys map to themselves
func (r *Registry) BackendID(key string) string {
	if t, ok := r.byKey[key]; ok {
		return t.BackendID
	}
	return key
}

// KeyForBackend returns the first tenant key whose backend id is backendID.
// It prefers preferred when that key maps to backendID.
func (r *Registry) KeyForBackend(backendID, preferred string) string {
	if preferred != "" && r.BackendID(preferred) == backendID {
		return preferred
	}
	for _, t := range r.tenants {
		if t.BackendID == backendID {
			return t.Key
		}
	}
	return backendID
}
