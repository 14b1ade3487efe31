package board

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aryan0dhankhar/leaddesk/internal/domain"
	"github.com/aryan0dhankhar/leaddesk/internal/testkit"
)

// fakeLeads is an in-memory domain.LeadService
type fakeLeads struct {
	byTenant map[string][]domain.Lead
	calls    []domain.LeadFilters
	nextID   int
	failWith error
}

func newFakeLeads() *fakeLeads {
	return &fakeLeads{byTenant: map[string][]domain.Lead{}}
}

func (f *fakeLeads) seed(tenant string, n int, status domain.LeadStatus) {
	for i := 0; i < n; i++ {
		f.nextID++
		l := testkit.SampleLead(fmt.Sprintf("lead%d", f.nextID), status)
		l.ID = fmt.Sprintf("id-%d", f.nextID)
		f.byTenant[tenant] = append(f.byTenant[tenant], l)
	}
}

func (f *fakeLeads) List(_ context.Context, tenant string, filters domain.LeadFilters) []domain.Lead {
	f.calls = append(f.calls, filters)
	out := []domain.Lead{}
	for _, l := range f.byTenant[tenant] {
		if filters.LeadStatus != "" && string(l.LeadStatus) != filters.LeadStatus {
			continue
		}
		if filters.City != "" && l.City != filters.City {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (f *fakeLeads) Create(_ context.Context, tenant string, in domain.LeadInput) (*domain.Lead, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.nextID++
	l := domain.Lead{ID: fmt.Sprintf("id-%d", f.nextID), FirstName: in.FirstName, LeadStatus: in.LeadStatus}
	f.byTenant[tenant] = append(f.byTenant[tenant], l)
	return &l, nil
}

func (f *fakeLeads) Update(_ context.Context, tenant, id string, in domain.LeadInput) (*domain.Lead, error) {
	for i, l := range f.byTenant[tenant] {
		if l.ID == id {
			l.FirstName = in.FirstName
			l.LeadStatus = in.LeadStatus
			f.byTenant[tenant][i] = l
			return &l, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func newBoard(f *fakeLeads, ttl time.Duration) *Board {
	return New(f, nil, ttl, "tenant1", testkit.DiscardLogger())
}

func TestPagination(t *testing.T) {
	f := newFakeLeads()
	f.seed("tenant1", 23, domain.StatusOpen)
	b := newBoard(f, 0)
	ctx := context.Background()
	b.Load(ctx)

	v := b.View()
	if v.Total != 23 || v.TotalPages != 3 || len(v.Leads) != 10 {
		t.Fatalf("unexpected first page %+v", v)
	}
	if v.Summary != "1 to 10 out of 23 records" {
		t.Fatalf("unexpected summary %q", v.Summary)
	}

	b.Next()
	b.Next()
	b.Next()
	v = b.View()
	if v.Page != 3 || len(v.Leads) != 3 || v.Summary != "21 to 23 out of 23 records" {
		t.Fatalf("expected clamped last page, got page %d summary %q", v.Page, v.Summary)
	}

	b.GoTo(-4)
	if b.View().Page != 1 {
		t.Fatalf("expected clamp to page 1")
	}
	b.Prev()
	if b.View().Page != 1 {
		t.Fatalf("expected Prev to stop at page 1")
	}
}

func TestEmptyBoard(t *testing.T) {
	b := newBoard(newFakeLeads(), 0)
	b.Load(context.Background())
	b.Next()

	v := b.View()
	if v.Page != 1 || v.Empty != EmptyText || v.Summary != "0 to 0 out of 0 records" {
		t.Fatalf("unexpected empty view %+v", v)
	}
}

func TestTabOverridesStatus(t *testing.T) {
	f := newFakeLeads()
	f.seed("tenant1", 12, domain.StatusOpen)
	f.seed("tenant1", 2, domain.StatusRejected)
	b := newBoard(f, 0)
	ctx := context.Background()

	b.ApplyFilters(ctx, domain.LeadFilters{LeadStatus: "Open"})
	b.Next()
	if b.View().Page != 2 {
		t.Fatalf("expected to reach page 2")
	}

	b.SelectTab(ctx, TabRejected)
	v := b.View()
	if v.Page != 1 || v.Total != 2 {
		t.Fatalf("expected rejected tab on page 1 with 2 leads, got %+v", v)
	}
	if got := f.calls[len(f.calls)-1].LeadStatus; got != "Rejected" {
		t.Fatalf("expected tab to override status filter, sent %q", got)
	}

	b.SelectTab(ctx, TabAll)
	if got := f.calls[len(f.calls)-1].LeadStatus; got != "Open" {
		t.Fatalf("expected All tab to keep the filter, sent %q", got)
	}
}

func TestRemoveAndClearFilters(t *testing.T) {
	f := newFakeLeads()
	b := newBoard(f, 0)
	ctx := context.Background()

	b.ApplyFilters(ctx, domain.LeadFilters{City: "Lahore", Province: "Punjab"})
	b.RemoveFilter(ctx, domain.FilterCity)
	if b.View().Filters.City != "" || b.View().Filters.Province != "Punjab" {
		t.Fatalf("expected only city removed, got %+v", b.View().Filters)
	}
	b.ClearFilters(ctx)
	if !b.View().Filters.IsEmpty() {
		t.Fatalf("expected filters cleared")
	}
}

func TestAddPrependsAndInvalidates(t *testing.T) {
	f := newFakeLeads()
	f.seed("tenant1", 3, domain.StatusOpen)
	b := newBoard(f, time.Minute)
	ctx := context.Background()
	b.Load(ctx)
	b.Load(ctx)
	if len(f.calls) != 1 {
		t.Fatalf("expected second load from cache, got %d calls", len(f.calls))
	}

	lead, err := b.Add(ctx, domain.LeadInput{FirstName: "New", LeadStatus: domain.StatusOpen})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	v := b.View()
	if v.Total != 4 || v.Leads[0].ID != lead.ID {
		t.Fatalf("expected created lead first, got %+v", v.Leads)
	}

	b.Load(ctx)
	if len(f.calls) != 2 {
		t.Fatalf("expected cache invalidated after add, got %d calls", len(f.calls))
	}
}

func TestAddErrorLeavesView(t *testing.T) {
	f := newFakeLeads()
	f.seed("tenant1", 1, domain.StatusOpen)
	f.failWith = fmt.Errorf("boom")
	b := newBoard(f, 0)
	b.Load(context.Background())
	if _, err := b.Add(context.Background(), domain.LeadInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if b.View().Total != 1 {
		t.Fatalf("expected view unchanged")
	}
}

func TestUpdateReplacesInView(t *testing.T) {
	f := newFakeLeads()
	f.seed("tenant1", 2, domain.StatusOpen)
	b := newBoard(f, time.Minute)
	ctx := context.Background()
	b.Load(ctx)

	if _, err := b.Update(ctx, "id-2", domain.LeadInput{FirstName: "Renamed", LeadStatus: domain.StatusConverted}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := b.View().Leads[1].FirstName; got != "Renamed" {
		t.Fatalf("expected lead replaced, got %q", got)
	}
}

func TestSetTenantInvalidates(t *testing.T) {
	f := newFakeLeads()
	f.seed("tenant1", 2, domain.StatusOpen)
	f.seed("tenant2", 5, domain.StatusOpen)
	c := NewLeadCache()
	b := New(f, c, time.Minute, "tenant1", testkit.DiscardLogger())
	ctx := context.Background()
	b.Load(ctx)

	b.SetTenant(ctx, "tenant2")
	if b.View().Total != 5 || b.Tenant() != "tenant2" {
		t.Fatalf("expected tenant2 leads, got %+v", b.View())
	}
	if _, ok := c.Get(cacheKey("tenant1", domain.LeadFilters{})); ok {
		t.Fatalf("expected tenant1 cache invalidated")
	}
}

func TestParseTab(t *testing.T) {
	if tab, err := ParseTab("converted"); err != nil || tab != TabConverted {
		t.Fatalf("expected Converted, got %v %v", tab, err)
	}
	if _, err := ParseTab("archived"); err == nil {
		t.Fatalf("expected unknown tab error")
	}
}

func TestDashboardCounts(t *testing.T) {
	f := newFakeLeads()
	f.seed("tenant1", 3, domain.StatusOpen)
	f.seed("tenant1", 2, domain.StatusConverted)
	f.seed("tenant1", 1, "In Progress")

	c := Dashboard(context.Background(), f, "tenant1")
	if c.Total != 6 || c.Status(domain.StatusOpen) != 3 || c.Status(domain.StatusConverted) != 2 || c.Status(domain.StatusDiscarded) != 0 {
		t.Fatalf("unexpected counts %+v", c)
	}
	if c.Other != 1 {
		t.Fatalf("expected one unknown status, got %d", c.Other)
	}
	if len(c.ByStatus) != len(domain.LeadStatuses) || c.ByProgress[0].Count != 6 {
		t.Fatalf("unexpected breakdown %+v", c)
	}
}

func TestFormatDate(t *testing.T) {
	cases := map[string]string{
		"2024-03-01T10:00:00.000Z":  "Mar 1, 2024, 10:00 AM",
		"2024-03-01T15:30:00+05:00": "Mar 1, 2024, 10:30 AM",
		"2024-12-25":                "Dec 25, 2024",
		"soon":                      "soon",
		"":                          "",
	}
	for in, want := range cases {
		if got := FormatDate(in); got != want {
			t.Errorf("FormatDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetQueryAndLead(t *testing.T) {
	f := newFakeLeads()
	f.seed("tenant1", 3, domain.StatusOpen)
	f.seed("tenant1", 1, domain.StatusDiscarded)
	b := newBoard(f, 0)
	ctx := context.Background()

	b.SetQuery(TabDiscarded, domain.LeadFilters{Search: "lead"})
	if len(f.calls) != 0 {
		t.Fatalf("SetQuery must not load")
	}
	b.Load(ctx)
	if b.View().Total != 1 {
		t.Fatalf("expected one discarded lead, got %d", b.View().Total)
	}
	if _, ok := b.Lead("id-4"); !ok {
		t.Fatalf("expected id-4 to be loaded")
	}
	if _, ok := b.Lead("id-1"); ok {
		t.Fatalf("expected id-1 filtered out")
	}
}
