package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/leaddesk/internal/domain"
	"github.com/aryan0dhankhar/leaddesk/internal/security/auth"
)

// TenantHeader is the header the fake backend partitions data by
const TenantHeader = "X-Tenant-ID"

// Account is a user known to the fake backend
type Account struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	TenantID  string
}

// RecordedRequest is what the fake backend saw
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type failure struct {
	status int
	body   string
}

// Backend is an httptest server speaking the lead backend's JSON API
type Backend struct {
	Server *httptest.Server
	Mux    *http.ServeMux

	mu       sync.Mutex
	accounts []Account
	leads    map[string][]domain.Lead // tenant -> leads
	requests []RecordedRequest
	fail     *failure
	tokens   *auth.TokenManager
	// LoginTenantOverride makes login report this tenant instead of the account's
	LoginTenantOverride string
}

// NewBackend starts a fake backend that is closed with the test
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		Mux:    http.NewServeMux(),
		leads:  map[string][]domain.Lead{},
		tokens: auth.NewTokenManager("testkit-secret", "testkit"),
	}

	b.Mux.HandleFunc("POST /auth/login", b.handleLogin)
	b.Mux.HandleFunc("POST /auth/register", b.handleRegister)
	b.Mux.HandleFunc("GET /lead", b.authenticated(b.handleListLeads))
	b.Mux.HandleFunc("POST /lead", b.authenticated(b.handleCreateLead))
	b.Mux.HandleFunc("PUT /lead/{id}", b.authenticated(b.handleUpdateLead))

	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.Server.URL
}

// AddAccount registers a user that can log in
func (b *Backend) AddAccount(a Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	b.accounts = append(b.accounts, a)
}

// FindAccount returns the registered account for email under tenantID
func (b *Backend) FindAccount(email, tenantID string) (Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if strings.EqualFold(a.Email, email) && a.TenantID == tenantID {
			return a, true
		}
	}
	return Account{}, false
}

// SeedLeads stores leads for a backend tenant
func (b *Backend) SeedLeads(tenantID string, leads ...domain.Lead) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range leads {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		b.leads[tenantID] = append(b.leads[tenantID], l)
	}
}

// Leads returns a copy of the stored leads of a tenant
func (b *Backend) Leads(tenantID string) []domain.Lead {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Lead(nil), b.leads[tenantID]...)
}

// FailNext makes the next request answer with status and a JSON message
func (b *Backend) FailNext(status int, message string) {
	b.RespondNext(status, message)
}

// RespondNext short-circuits the next request. An empty message sends an empty body.
func (b *Backend) RespondNext(status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	body := ""
	if message != "" {
		raw, _ := json.Marshal(map[string]string{"message": message})
		body = string(raw)
	}
	b.fail = &failure{status: status, body: body}
}

// Requests returns everything received so far
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// LastRequest returns the most recent request or fails the test
func (b *Backend) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()
	reqs := b.Requests()
	if len(reqs) == 0 {
		t.Fatalf("expected the backend to receive a request")
	}
	return reqs[len(reqs)-1]
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	var raw []byte
	if r.Body != nil {
		raw, _ = readAll(r)
	}
	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   raw,
	})
	f := b.fail
	b.fail = nil
	b.mu.Unlock()

	if f != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
		return
	}
	r.Body = bodyReader(raw)
	b.Mux.ServeHTTP(w, r)
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	tenantID := r.Header.Get(TenantHeader)

	b.mu.Lock()
	var found *Account
	for i := range b.accounts {
		a := b.accounts[i]
		if strings.EqualFold(a.Email, req.Email) && a.TenantID == tenantID {
			found = &a
			break
		}
	}
	override := b.LoginTenantOverride
	b.mu.Unlock()

	if found == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
		return
	}
	if found.Password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	if override != "" {
		tenantID = override
	}

	token, err := b.tokens.GenerateToken(tenantID, found.ID, found.Email, time.Hour)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"tenantId": tenantID,
		"user": map[string]string{
			"id":        found.ID,
			"email":     found.Email,
			"firstName": found.FirstName,
			"lastName":  found.LastName,
			"tenant":    tenantID,
		},
	})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		TenantID  string `json:"tenantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if strings.EqualFold(a.Email, req.Email) && a.TenantID == req.TenantID {
			writeJSON(w, http.StatusConflict, map[string]string{})
			return
		}
	}
	b.accounts = append(b.accounts, Account{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		TenantID:  req.TenantID,
	})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered"})
}

// authenticated rejects requests without a bearer token for the header tenant
func (b *Backend) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		claims, err := b.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil || claims.Tenant() != r.Header.Get(TenantHeader) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		next(w, r)
	}
}

func (b *Backend) handleListLeads(w http.ResponseWriter, r *http.Request) {
	tenantID := r.Header.Get(TenantHeader)
	q := r.URL.Query()

	b.mu.Lock()
	all := append([]domain.Lead(nil), b.leads[tenantID]...)
	b.mu.Unlock()

	out := make([]domain.Lead, 0, len(all))
	for _, l := range all {
		if matches(l, q.Get) {
			out = append(out, l)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var in domain.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	now := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	lead := leadFromInput(uuid.NewString(), in)
	lead.CreatedAt, lead.UpdatedAt = now, now

	tenantID := r.Header.Get(TenantHeader)
	b.mu.Lock()
	b.leads[tenantID] = append(b.leads[tenantID], lead)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, lead)
}

func (b *Backend) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	var in domain.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	id := r.PathValue("id")
	tenantID := r.Header.Get(TenantHeader)

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.leads[tenantID] {
		if l.ID != id {
			continue
		}
		updated := leadFromInput(id, in)
		updated.CreatedAt = l.CreatedAt
		updated.UpdatedAt = time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
		updated.Version = l.Version + 1
		b.leads[tenantID][i] = updated
		writeJSON(w, http.StatusOK, updated)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": fmt.Sprintf("Lead %s not found", id)})
}

func matches(l domain.Lead, get func(string) string) bool {
	if s := strings.ToLower(get(domain.FilterSearch)); s != "" {
		hay := strings.ToLower(l.FirstName + " " + l.LastName + " " + l.Email + " " + l.MobileNo)
		if !strings.Contains(hay, s) {
			return false
		}
	}
	checks := map[string]string{
		domain.FilterLeadStatus:   string(l.LeadStatus),
		domain.FilterLeadType:     string(l.LeadType),
		domain.FilterLeadProgress: string(l.LeadProgress),
		domain.FilterProvince:     l.Province,
		domain.FilterCity:         l.City,
	}
	for key, have := range checks {
		if want := get(key); want != "" && !strings.EqualFold(want, have) {
			return false
		}
	}
	return true
}

func leadFromInput(id string, in domain.LeadInput) domain.Lead {
	return domain.Lead{
		ID:               id,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            in.Email,
		MobileNo:         in.MobileNo,
		LandlineNo:       in.LandlineNo,
		Province:         in.Province,
		City:             in.City,
		LeadType:         in.LeadType,
		LeadStatus:       in.LeadStatus,
		LeadProgress:     in.LeadProgress,
		AllocatorRemarks: in.AllocatorRemarks,
		UserRemarks:      in.UserRemarks,
		AppointmentDate:  in.AppointmentDate,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
