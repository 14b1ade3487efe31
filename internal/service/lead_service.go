package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aryan0dhankhar/leaddesk/internal/apiclient"
	"github.com/aryan0dhankhar/leaddesk/internal/domain"
	"github.com/aryan0dhankhar/leaddesk/internal/observability/tracing"
	"github.com/aryan0dhankhar/leaddesk/internal/validation"
)

// Requester sends authenticated backend requests; *apiclient.Client implements it
type Requester interface {
	Get(ctx context.Context, tenantID, path string, query url.Values, out any) error
	Post(ctx context.Context, tenantID, path string, body, out any) error
	Put(ctx context.Context, tenantID, path string, body, out any) error
}

// TenantMapper maps a tenant key to its backend id
type TenantMapper interface {
	BackendID(key string) string
}

// LeadService implements domain.LeadService against the backend
type LeadService struct {
	api     Requester
	tenants TenantMapper
	now     func() time.Time
	logger  *slog.Logger
}

var _ domain.LeadService = (*LeadService)(nil)

// NewLeadService creates a new lead service
func NewLeadService(api Requester, tenants TenantMapper, logger *slog.Logger) *LeadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadService{api: api, tenants: tenants, now: time.Now, logger: logger}
}

// List returns the leads matching filters. Failures are logged and yield an empty list.
func (s *LeadService) List(ctx context.Context, tenantKey string, filters domain.LeadFilters) []domain.Lead {
	backendID := s.tenants.BackendID(tenantKey)
	ctx, span := tracing.Start(ctx, "leads.list", backendID)
	defer span.End()

	var raw json.RawMessage
	err := s.api.Get(ctx, backendID, "/lead", FilterQuery(filters), &raw)
	if err != nil {
		s.logger.Warn("failed to list leads",
			slog.String("tenant_id", backendID),
			slog.Int("status", apiclient.StatusCode(err)),
			slog.String("error", err.Error()),
		)
		return []domain.Lead{}
	}

	leads, err := decodeLeads(raw)
	if err != nil {
		s.logger.Warn("unexpected lead list payload",
			slog.String("tenant_id", backendID),
			slog.String("error", err.Error()),
		)
		return []domain.Lead{}
	}
	return leads
}

// Create applies defaults, validates and posts a new lead
func (s *LeadService) Create(ctx context.Context, tenantKey string, input domain.LeadInput) (*domain.Lead, error) {
	input = s.prepare(input)
	if err := validation.Lead(input); err != nil {
		return nil, err
	}

	backendID := s.tenants.BackendID(tenantKey)
	ctx, span := tracing.Start(ctx, "leads.create", backendID)
	defer span.End()

	var lead domain.Lead
	err := s.api.Post(ctx, backendID, "/lead", input, &lead)
	if err != nil {
		s.logger.Error("failed to create lead",
			slog.String("tenant_id", backendID),
			slog.Int("status", apiclient.StatusCode(err)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("create lead: %w", err)
	}
	s.logger.Info("lead created", slog.String("tenant_id", backendID), slog.String("lead_id", lead.ID))
	return &lead, nil
}

// Update validates and replaces the editable fields of lead id. Unlike Create
// it fills no defaults.
func (s *LeadService) Update(ctx context.Context, tenantKey, id string, input domain.LeadInput) (*domain.Lead, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("update lead: id is required")
	}
	input.MobileNo = validation.SanitizeMobile(input.MobileNo)
	if err := validation.LeadUpdate(input); err != nil {
		return nil, err
	}

	backendID := s.tenants.BackendID(tenantKey)
	ctx, span := tracing.Start(ctx, "leads.update", backendID)
	defer span.End()

	var lead domain.Lead
	path := "/lead/" + url.PathEscape(id)
	err := s.api.Put(ctx, backendID, path, input, &lead)
	if err != nil {
		s.logger.Error("failed to update lead",
			slog.String("tenant_id", backendID),
			slog.String("lead_id", id),
			slog.Int("status", apiclient.StatusCode(err)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("update lead %s: %w", id, err)
	}
	s.logger.Info("lead updated", slog.String("tenant_id", backendID), slog.String("lead_id", id))
	return &lead, nil
}

// prepare sanitises the mobile number and fills form defaults
func (s *LeadService) prepare(in domain.LeadInput) domain.LeadInput {
	in.MobileNo = validation.SanitizeMobile(in.MobileNo)
	return ApplyDefaults(in, s.now())
}

// ApplyDefaults fills the values the add-lead form preselects
func ApplyDefaults(in domain.LeadInput, today time.Time) domain.LeadInput {
	if in.LeadType == "" {
		in.LeadType = domain.TypeSupport
	}
	if in.LeadStatus == "" {
		in.LeadStatus = domain.StatusOpen
	}
	if in.LeadProgress == "" {
		in.LeadProgress = domain.ProgressNew
	}
	if in.AppointmentDate == "" {
		in.AppointmentDate = today.Format(time.DateOnly)
	}
	return in
}

// FilterQuery encodes filters, omitting empty values
func FilterQuery(f domain.LeadFilters) url.Values {
	q := url.Values{}
	for _, key := range domain.FilterKeys {
		if v := strings.TrimSpace(f.Get(key)); v != "" {
			q.Set(key, v)
		}
	}
	return q
}

// decodeLeads accepts a bare array or an envelope with data or leads
func decodeLeads(raw json.RawMessage) ([]domain.Lead, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []domain.Lead{}, nil
	}
	var leads []domain.Lead
	if err := json.Unmarshal(raw, &leads); err == nil {
		return leads, nil
	}
	var envelope struct {
		Data  []domain.Lead `json:"data"`
		Leads []domain.Lead `json:"leads"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	if envelope.Leads != nil {
		return envelope.Leads, nil
	}
	return []domain.Lead{}, nil
}
