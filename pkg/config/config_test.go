package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LEADDESK_STORAGE_PATH", "/tmp/leaddesk-test.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIURL != "http://localhost:3000" {
		t.Fatalf("unexpected api url: %s", cfg.APIURL)
	}
	if cfg.DefaultTenant != "tenant1" {
		t.Fatalf("unexpected default tenant: %s", cfg.DefaultTenant)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.HTTPTimeout)
	}
	if cfg.Storage != StorageFile {
		t.Fatalf("unexpected storage: %s", cfg.Storage)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development environment by default")
	}
}

func TestLoadTrimsAPIURL(t *testing.T) {
	t.Setenv("LEADDESK_API_URL", "https://api.example.com/")
	t.Setenv("LEADDESK_STORAGE", "MEMORY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.APIURL)
	}
	if cfg.Storage != StorageMemory {
		t.Fatalf("expected storage normalised to memory, got %s", cfg.Storage)
	}
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("LEADDESK_STORAGE", "sqlite")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for unknown storage")
	}
	if !strings.Contains(err.Error(), "LEADDESK_STORAGE") {
		t.Fatalf("expected storage in error, got %v", err)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("LEADDESK_HTTP_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error for bad duration")
	}
}
