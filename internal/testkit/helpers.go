package testkit

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/aryan0dhankhar/leaddesk/internal/domain"
)

// DiscardLogger returns a logger that drops every record
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MustParseURL parses raw or fails the test
func MustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url %q: %v", raw, err)
	}
	return u
}

// SampleLead returns a valid lead with the given name and status
func SampleLead(first string, status domain.LeadStatus) domain.Lead {
	return domain.Lead{
		FirstName:       first,
		LastName:        "Doe",
		Email:           first + "@example.com",
		MobileNo:        "1234567890",
		Province:        "Punjab",
		City:            "Lahore",
		LeadType:        domain.TypeSales,
		LeadStatus:      status,
		LeadProgress:    domain.ProgressNew,
		AppointmentDate: "2024-03-01T10:00:00.000Z",
		CreatedAt:       "2024-03-01T10:00:00.000Z",
		UpdatedAt:       "2024-03-01T10:00:00.000Z",
	}
}

// AssertHeader fails the test when req lacks the expected header value
func AssertHeader(t *testing.T, req RecordedRequest, name, expected string) {
	t.Helper()
	if got := req.Header.Get(name); got != expected {
		t.Errorf("Expected header %s=%q, got %q", name, expected, got)
	}
}

// AssertNoHeader fails the test when req carries the header
func AssertNoHeader(t *testing.T, req RecordedRequest, name string) {
	t.Helper()
	if got := req.Header.Get(name); got != "" {
		t.Errorf("Expected no %s header, got %q", name, got)
	}
}

func readAll(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func bodyReader(raw []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(raw))
}
