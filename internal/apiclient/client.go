package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/leaddesk/internal/observability/metrics"
	"github.com/aryan0dhankhar/leaddesk/internal/repository"
	"github.com/aryan0dhankhar/leaddesk/internal/security"
	"github.com/aryan0dhankhar/leaddesk/internal/security/audit"
	"github.com/aryan0dhankhar/leaddesk/internal/security/auth"
)

// Header names sent on every request
const (
	HeaderTenant    = "X-Tenant-ID"
	HeaderRequestID = "X-Request-ID"
)

// DefaultTimeout applies when Options.Timeout is zero
const DefaultTimeout = 10 * time.Second

// LoginRedirector is told to show the login screen after a 401
type LoginRedirector interface {
	RedirectToLogin()
}

// Request describes one backend call
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Body      any
	Tenant    string // Backend tenant id for the tenant header
	Anonymous bool   // Never attach the stored token
}

// Options configures a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper // Base transport; defaults to http.DefaultTransport
}

// Client attaches tenant and token to backend requests
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *repository.SessionRepository
	redirect LoginRedirector
	guard    *security.TenantGuard
	audit    *audit.Logger
	logger   *slog.Logger
}

// NewClient creates a new API client
func NewClient(opts Options, sessions *repository.SessionRepository, redirect LoginRedirector, auditLogger *audit.Logger, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if auditLogger == nil {
		auditLogger = audit.NewLogger(logger)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(metrics.Transport(opts.Transport)),
		},
		sessions: sessions,
		redirect: redirect,
		guard:    security.NewTenantGuard(logger),
		audit:    auditLogger,
		logger:   logger,
	}
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req and decodes a 2xx JSON body into out when out is non-nil
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	requestID := uuid.NewString()
	ctx = audit.WithRequestID(ctx, requestID)

	token := ""
	if !req.Anonymous {
		var err error
		if token, err = c.sessions.Token(ctx); err != nil {
			c.logger.Warn("failed to read token", slog.String("error", err.Error()))
			token = ""
		}
	}
	if token != "" {
		if err := c.checkTenant(ctx, req); err != nil {
			return err
		}
	}

	httpReq, err := c.newHTTPRequest(ctx, req, token, requestID)
	if err != nil {
		return err
	}

	logger := c.logger.With(
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.String("tenant_id", req.Tenant),
		slog.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.Warn("request failed", slog.String("error", err.Error()))
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("failed to read response", slog.String("error", err.Error()))
		return &NetworkError{Err: err}
	}
	logger.Debug("request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	// A 401 on an anonymous call (bad login credentials) says nothing about the stored session.
	if resp.StatusCode == http.StatusUnauthorized && !req.Anonymous {
		c.handleUnauthorized(ctx, req.Tenant)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get is a convenience wrapper for an authenticated GET
func (c *Client) Get(ctx context.Context, tenantID, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Tenant: tenantID}, out)
}

// Post is a convenience wrapper for an authenticated POST
func (c *Client) Post(ctx context.Context, tenantID, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Tenant: tenantID}, out)
}

// Put is a convenience wrapper for an authenticated PUT
func (c *Client) Put(ctx context.Context, tenantID, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body, Tenant: tenantID}, out)
}

func (c *Client) checkTenant(ctx context.Context, req Request) error {
	sessionTenant, err := c.sessions.TenantID(ctx)
	if err != nil {
		c.logger.Warn("failed to read session tenant", slog.String("error", err.Error()))
	}
	if err := c.guard.ValidateTenantAccess(sessionTenant, req.Tenant); err != nil {
		metrics.ObserveAPIRequest(req.Method, metrics.RoutePattern(req.Path), "denied", 0)
		c.audit.LogDenied(ctx, req.Tenant, "", "tenant header does not match session")
		return err
	}
	return nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request, token, requestID string) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderRequestID, requestID)
	if req.Tenant != "" {
		httpReq.Header.Set(HeaderTenant, req.Tenant)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", auth.BearerHeader(token))
	}
	return httpReq, nil
}

func (c *Client) handleUnauthorized(ctx context.Context, tenantID string) {
	c.logger.Warn("unauthorized response, clearing session", slog.String("tenant_id", tenantID))
	if err := c.sessions.Clear(ctx); err != nil {
		c.logger.Error("failed to clear session after 401", slog.String("error", err.Error()))
	}
	c.audit.LogSessionExpired(ctx, tenantID, "backend returned 401")
	metrics.ObserveSessionEvent("expired", "cleared")
	if c.redirect != nil {
		c.redirect.RedirectToLogin()
	}
}
