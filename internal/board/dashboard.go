package board

import (
	"context"

	"github.com/aryan0dhankhar/leaddesk/internal/domain"
)

// StatusCount is the number of leads in one status
type StatusCount struct {
	Status domain.LeadStatus
	Count  int
}

// ProgressCount is the number of leads at one pipeline stage
type ProgressCount struct {
	Progress domain.LeadProgress
	Count    int
}

// Counts summarises a tenant's leads for the dashboard
type Counts struct {
	Tenant     string
	Total      int
	ByStatus   []StatusCount   // Every known status, in declaration order
	ByProgress []ProgressCount // Every pipeline stage, in pipeline order
	Other      int             // Leads whose status is not a known value
}

// Status returns the count for s
func (c Counts) Status(s domain.LeadStatus) int {
	for _, sc := range c.ByStatus {
		if sc.Status == s {
			return sc.Count
		}
	}
	return 0
}

// Count tallies leads by status and progress
func Count(tenant string, leads []domain.Lead) Counts {
	status := make(map[domain.LeadStatus]int, len(domain.LeadStatuses))
	progress := make(map[domain.LeadProgress]int, len(domain.LeadPipeline))
	c := Counts{Tenant: tenant, Total: len(leads)}
	for _, l := range leads {
		if l.LeadStatus.Valid() {
			status[l.LeadStatus]++
		} else {
			c.Other++
		}
		progress[l.LeadProgress]++
	}
	for _, s := range domain.LeadStatuses {
		c.ByStatus = append(c.ByStatus, StatusCount{Status: s, Count: status[s]})
	}
	for _, p := range domain.LeadPipeline {
		c.ByProgress = append(c.ByProgress, ProgressCount{Progress: p, Count: progress[p]})
	}
	return c
}

// Dashboard loads every lead of tenantKey and counts them
func Dashboard(ctx context.Context, leads domain.LeadService, tenantKey string) Counts {
	return Count(tenantKey, leads.List(ctx, tenantKey, domain.LeadFilters{}))
}
