package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aryan0dhankhar/leaddesk/internal/apiclient"
	"github.com/aryan0dhankhar/leaddesk/internal/domain"
	"github.com/aryan0dhankhar/leaddesk/internal/repository"
	"github.com/aryan0dhankhar/leaddesk/internal/security/auth"
	"github.com/aryan0dhankhar/leaddesk/internal/tenant"
	"github.com/aryan0dhankhar/leaddesk/internal/testkit"
	"github.com/aryan0dhankhar/leaddesk/internal/validation"
)

type leadFixture struct {
	backend  *testkit.Backend
	sessions *repository.SessionRepository
	svc      *LeadService
}

func newLeadFixture(t *testing.T, baseURL string) *leadFixture {
	t.Helper()
	logger := testkit.DiscardLogger()
	sessions := repository.NewSessionRepository(repository.NewMemoryStorage(), logger)
	client := apiclient.NewClient(apiclient.Options{BaseURL: baseURL, Timeout: 2 * time.Second}, sessions, nil, nil, logger)
	svc := NewLeadService(client, tenant.NewRegistry(), logger)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return &leadFixture{sessions: sessions, svc: svc}
}

func newBackendFixture(t *testing.T) *leadFixture {
	t.Helper()
	backend := testkit.NewBackend(t)
	f := newLeadFixture(t, backend.URL())
	f.backend = backend

	token, err := auth.NewTokenManager("testkit-secret", "testkit").GenerateToken("technxt", "u1", "admin@technxt.com", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	err = f.sessions.Save(context.Background(), &domain.Session{Token: token, TenantID: "technxt", User: domain.User{ID: "u1"}})
	if err != nil {
		t.Fatalf("save session: %v", err)
	}
	return f
}

func TestListLeads(t *testing.T) {
	f := newBackendFixture(t)
	f.backend.SeedLeads("technxt",
		testkit.SampleLead("Ann", domain.StatusOpen),
		testkit.SampleLead("Bob", domain.StatusConverted),
	)
	f.backend.SeedLeads("iorta", testkit.SampleLead("Cat", domain.StatusOpen))

	leads := f.svc.List(context.Background(), "tenant1", domain.LeadFilters{})
	if len(leads) != 2 {
		t.Fatalf("expected 2 technxt leads, got %d", len(leads))
	}
	req := f.backend.LastRequest(t)
	if req.Path != "/lead" || req.Query != "" {
		t.Fatalf("expected bare /lead, got %s?%s", req.Path, req.Query)
	}
	testkit.AssertHeader(t, req, apiclient.HeaderTenant, "technxt")
}

func TestListLeadsFilters(t *testing.T) {
	f := newBackendFixture(t)
	f.backend.SeedLeads("technxt",
		testkit.SampleLead("Ann", domain.StatusOpen),
		testkit.SampleLead("Bob", domain.StatusConverted),
	)

	leads := f.svc.List(context.Background(), "tenant1", domain.LeadFilters{LeadStatus: "Open", City: "  "})
	if len(leads) != 1 || leads[0].FirstName != "Ann" {
		t.Fatalf("expected only Ann, got %+v", leads)
	}
	if q := f.backend.LastRequest(t).Query; q != "leadStatus=Open" {
		t.Fatalf("expected empty filters omitted, got %q", q)
	}
}

func TestListLeadsNeverFails(t *testing.T) {
	f := newBackendFixture(t)
	f.backend.FailNext(http.StatusInternalServerError, "boom")

	leads := f.svc.List(context.Background(), "tenant1", domain.LeadFilters{})
	if leads == nil || len(leads) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", leads)
	}

	unreachable := newLeadFixture(t, "http://127.0.0.1:1")
	if got := unreachable.svc.List(context.Background(), "tenant1", domain.LeadFilters{}); len(got) != 0 {
		t.Fatalf("expected empty list when backend unreachable")
	}
}

func TestCreateLeadAppliesDefaults(t *testing.T) {
	f := newBackendFixture(t)

	lead, err := f.svc.Create(context.Background(), "tenant1", domain.LeadInput{
		FirstName: "Dan",
		LastName:  "Roe",
		Email:     "dan@example.com",
		MobileNo:  "(123) 456-7890",
		Province:  "Sindh",
		City:      "Karachi",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if lead.ID == "" {
		t.Fatalf("expected backend id")
	}
	if lead.LeadType != domain.TypeSupport || lead.LeadStatus != domain.StatusOpen || lead.LeadProgress != domain.ProgressNew {
		t.Fatalf("expected defaults, got %+v", lead)
	}
	if lead.AppointmentDate != "2024-03-01" || lead.MobileNo != "1234567890" {
		t.Fatalf("unexpected date or mobile: %+v", lead)
	}
	if n := len(f.backend.Leads("technxt")); n != 1 {
		t.Fatalf("expected lead stored under technxt, got %d", n)
	}
}

func TestCreateLeadValidation(t *testing.T) {
	f := newBackendFixture(t)

	_, err := f.svc.Create(context.Background(), "tenant1", domain.LeadInput{FirstName: "Dan", MobileNo: "123456789"})
	verr, ok := validation.As(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if verr.Get("mobileNo") != "Mobile number must be exactly 10 digits" {
		t.Fatalf("unexpected mobile message: %v", verr.Map())
	}
	if n := len(f.backend.Requests()); n != 0 {
		t.Fatalf("expected no request for invalid lead, got %d", n)
	}
}

func TestCreateLeadExposesStatus(t *testing.T) {
	f := newBackendFixture(t)
	f.backend.FailNext(http.StatusUnprocessableEntity, "duplicate lead")

	in := ApplyDefaults(domain.InputFromLead(&domain.Lead{
		FirstName: "Eve", LastName: "Poe", Email: "eve@example.com", MobileNo: "1234567890", Province: "P", City: "C",
	}), time.Now())
	_, err := f.svc.Create(context.Background(), "tenant1", in)
	if apiclient.StatusCode(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 to be exposed, got %v", err)
	}
}

func TestUpdateLead(t *testing.T) {
	f := newBackendFixture(t)
	f.backend.SeedLeads("technxt", domain.Lead{ID: "lead-1", FirstName: "Ann", LastName: "Doe", Email: "ann@example.com",
		MobileNo: "1234567890", Province: "Punjab", City: "Lahore", LeadType: domain.TypeSales,
		LeadStatus: domain.StatusOpen, LeadProgress: domain.ProgressNew, AppointmentDate: "2024-03-01T10:00:00.000Z"})

	in := domain.InputFromLead(&f.backend.Leads("technxt")[0])
	if in.AppointmentDate != "2024-03-01" {
		t.Fatalf("expected date truncated for the form, got %q", in.AppointmentDate)
	}
	in.LeadStatus = domain.StatusConverted
	in.LeadProgress = domain.ProgressClosedWon

	lead, err := f.svc.Update(context.Background(), "tenant1", "lead-1", in)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if lead.LeadStatus != domain.StatusConverted || lead.Version != 1 {
		t.Fatalf("unexpected updated lead %+v", lead)
	}
	req := f.backend.LastRequest(t)
	if req.Method != http.MethodPut || req.Path != "/lead/lead-1" {
		t.Fatalf("expected PUT /lead/lead-1, got %s %s", req.Method, req.Path)
	}

	_, err = f.svc.Update(context.Background(), "tenant1", "missing", in)
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
}

func TestUpdateLeadAppliesNoDefaults(t *testing.T) {
	f := newBackendFixture(t)
	lead := testkit.SampleLead("Ann", domain.StatusOpen)
	lead.ID = "lead-1"
	lead.AppointmentDate = ""
	f.backend.SeedLeads("technxt", lead)

	in := domain.InputFromLead(&lead)
	in.City = "Multan"
	if _, err := f.svc.Update(context.Background(), "tenant1", "lead-1", in); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(f.backend.LastRequest(t).Body, &body); err != nil {
		t.Fatalf("decode PUT body: %v", err)
	}
	if body["appointmentDate"] != "" {
		t.Fatalf("expected empty appointmentDate, got %v", body["appointmentDate"])
	}
	if body["city"] != "Multan" || body["leadProgress"] != string(domain.ProgressNew) {
		t.Fatalf("unexpected PUT body %v", body)
	}
}

func TestUpdateLeadKeepsStoredProgress(t *testing.T) {
	f := newBackendFixture(t)
	lead := testkit.SampleLead("Ann", domain.StatusOpen)
	lead.ID = "lead-1"
	lead.LeadProgress = "Follow Up"
	f.backend.SeedLeads("technxt", lead)

	in := domain.InputFromLead(&lead)
	in.City = "Multan"
	updated, err := f.svc.Update(context.Background(), "tenant1", "lead-1", in)
	if err != nil {
		t.Fatalf("expected stored progress to be accepted, got %v", err)
	}
	if updated.LeadProgress != "Follow Up" || updated.City != "Multan" {
		t.Fatalf("unexpected updated lead %+v", updated)
	}

	in.MobileNo = "123"
	_, err = f.svc.Update(context.Background(), "tenant1", "lead-1", in)
	verr, ok := validation.As(err)
	if !ok || verr.Get("mobileNo") == "" {
		t.Fatalf("expected mobile validation on update, got %v", err)
	}
}

func TestDecodeLeadsEnvelope(t *testing.T) {
	leads, err := decodeLeads([]byte(`{"data":[{"_id":"1","firstName":"A"}]}`))
	if err != nil || len(leads) != 1 || leads[0].ID != "1" {
		t.Fatalf("expected envelope decode, got %v %v", leads, err)
	}
	if leads, err := decodeLeads([]byte(`null`)); err != nil || len(leads) != 0 {
		t.Fatalf("expected empty for null")
	}
}
