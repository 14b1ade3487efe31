package board

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aryan0dhankhar/leaddesk/internal/domain"
	"github.com/aryan0dhankhar/leaddesk/pkg/cache"
)

// PageSize is the number of leads per page
const PageSize = 10

// EmptyText is shown when a page has no leads
const EmptyText = "No leads found matching your criteria."

// Tab narrows the board to one lead status
type Tab string

const (
	TabAll       Tab = "All"
	TabOpen      Tab = "Open"
	TabConverted Tab = "Converted"
	TabRejected  Tab = "Rejected"
	TabDiscarded Tab = "Discarded"
)

// Tabs lists the tabs in display order
var Tabs = []Tab{TabAll, TabOpen, TabConverted, TabRejected, TabDiscarded}

// ParseTab matches a tab name case-insensitively
func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// LeadCache holds lead lists keyed by tenant and query
type LeadCache = cache.Cache[[]domain.Lead]

// NewLeadCache creates an empty lead cache
func NewLeadCache() *LeadCache {
	return cache.New[[]domain.Lead]()
}

// View is the printable state of one board page
type View struct {
	Tenant     string
	Tab        Tab
	Filters    domain.LeadFilters
	Page       int
	TotalPages int
	Total      int
	Leads      []domain.Lead
	Summary    string
	Empty      string // EmptyText when Leads is empty
}

// Board is the leads list with tabs, filters and pagination
type Board struct {
	leads   domain.LeadService
	cache   *LeadCache
	ttl     time.Duration
	logger  *slog.Logger
	tenant  string
	tab     Tab
	filters domain.LeadFilters
	page    int
	items   []domain.Lead
	loaded  bool
}

// New creates a board for tenantKey. A nil cache or zero ttl disables caching.
func New(leads domain.LeadService, c *LeadCache, ttl time.Duration, tenantKey string, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	if c == nil {
		c = NewLeadCache()
	}
	return &Board{
		leads:  leads,
		cache:  c,
		ttl:    ttl,
		logger: logger,
		tenant: tenantKey,
		tab:    TabAll,
		page:   1,
	}
}

// Tenant returns the tenant the board is showing
func (b *Board) Tenant() string { return b.tenant }

// EffectiveFilters are the filters sent to the backend; a tab other than All overrides leadStatus
func (b *Board) EffectiveFilters() domain.LeadFilters {
	if b.tab == TabAll {
		return b.filters
	}
	return b.filters.With(domain.FilterLeadStatus, string(b.tab))
}

// Load fetches the current query, from cache when fresh
func (b *Board) Load(ctx context.Context) {
	filters := b.EffectiveFilters()
	key := cacheKey(b.tenant, filters)
	if items, ok := b.cache.Get(key); ok {
		b.logger.Debug("lead list served from cache", slog.String("tenant", b.tenant))
		b.setItems(items)
		return
	}
	items := b.leads.List(ctx, b.tenant, filters)
	b.cache.Set(key, items, b.ttl)
	b.setItems(items)
}

func (b *Board) setItems(items []domain.Lead) {
	b.items = append([]domain.Lead(nil), items...)
	b.loaded = true
	b.clamp()
}

// SetTenant switches the board to another tenant and reloads
func (b *Board) SetTenant(ctx context.Context, tenantKey string) {
	if tenantKey == b.tenant && b.loaded {
		return
	}
	b.Invalidate()
	b.tenant = tenantKey
	b.page = 1
	b.Load(ctx)
}

// SetQuery sets tab and filters and resets to page 1 without loading
func (b *Board) SetQuery(tab Tab, f domain.LeadFilters) {
	b.tab = tab
	b.filters = f
	b.page = 1
}

// Lead returns a loaded lead by id
func (b *Board) Lead(id string) (domain.Lead, bool) {
	for _, l := range b.items {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Lead{}, false
}

// SelectTab changes the tab, resets to page 1 and reloads
func (b *Board) SelectTab(ctx context.Context, tab Tab) {
	b.tab = tab
	b.page = 1
	b.Load(ctx)
}

// ApplyFilters replaces the filters, resets to page 1 and reloads
func (b *Board) ApplyFilters(ctx context.Context, f domain.LeadFilters) {
	b.filters = f
	b.page = 1
	b.Load(ctx)
}

// RemoveFilter clears one filter key
func (b *Board) RemoveFilter(ctx context.Context, key string) {
	b.ApplyFilters(ctx, b.filters.With(key, ""))
}

// ClearFilters removes every filter
func (b *Board) ClearFilters(ctx context.Context) {
	b.ApplyFilters(ctx, domain.LeadFilters{})
}

// Next moves one page forward, stopping at the last page
func (b *Board) Next() { b.GoTo(b.page + 1) }

// Prev moves one page back, stopping at page 1
func (b *Board) Prev() { b.GoTo(b.page - 1) }

// GoTo jumps to page n, clamped to the available pages
func (b *Board) GoTo(n int) {
	b.page = n
	b.clamp()
}

// Add creates a lead and prepends it to the current view
func (b *Board) Add(ctx context.Context, in domain.LeadInput) (*domain.Lead, error) {
	lead, err := b.leads.Create(ctx, b.tenant, in)
	if err != nil {
		return nil, err
	}
	b.Invalidate()
	b.items = append([]domain.Lead{*lead}, b.items...)
	b.loaded = true
	return lead, nil
}

// Update changes a lead and replaces it in the current view
func (b *Board) Update(ctx context.Context, id string, in domain.LeadInput) (*domain.Lead, error) {
	lead, err := b.leads.Update(ctx, b.tenant, id, in)
	if err != nil {
		return nil, err
	}
	b.Invalidate()
	for i := range b.items {
		if b.items[i].ID == id {
			b.items[i] = *lead
			break
		}
	}
	return lead, nil
}

// Invalidate drops cached lists of the board's tenant
func (b *Board) Invalidate() {
	InvalidateTenant(b.cache, b.tenant)
}

// InvalidateTenant drops every cached list of tenant
func InvalidateTenant(c *LeadCache, tenant string) {
	c.Invalidate(tenantPrefix(tenant))
}

// View returns the current page
func (b *Board) View() View {
	total := len(b.items)
	start := (b.page - 1) * PageSize
	end := min(start+PageSize, total)
	if start > total {
		start = total
	}

	v := View{
		Tenant:     b.tenant,
		Tab:        b.tab,
		Filters:    b.filters,
		Page:       b.page,
		TotalPages: totalPages(total),
		Total:      total,
		Leads:      append([]domain.Lead(nil), b.items[start:end]...),
		Summary:    Summary(start, end, total),
	}
	if len(v.Leads) == 0 {
		v.Empty = EmptyText
	}
	return v
}

// Summary renders "<start> to <end> out of <n> records" for a zero-based half-open range
func Summary(start, end, total int) string {
	first := start + 1
	if total == 0 {
		first = 0
	}
	return fmt.Sprintf("%d to %d out of %d records", first, end, total)
}

func (b *Board) clamp() {
	last := max(totalPages(len(b.items)), 1)
	b.page = min(max(b.page, 1), last)
}

func totalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

func tenantPrefix(tenant string) string {
	return "leads:" + tenant + ":"
}

func cacheKey(tenant string, f domain.LeadFilters) string {
	q := url.Values{}
	for _, k := range domain.FilterKeys {
		q.Set(k, f.Get(k))
	}
	return tenantPrefix(tenant) + q.Encode()
}
