package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestGenerateAndParseUnverified(t *testing.T) {
	tm := NewTokenManager("", "")
	tok, err := tm.GenerateToken("technxt", "u1", "admin@technxt.com", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ParseUnverified(tok)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Tenant() != "technxt" || claims.UserID != "u1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Expired(time.Now()) {
		t.Fatalf("fresh token should not be expired")
	}
	if !claims.Expired(time.Now().Add(2 * time.Hour)) {
		t.Fatalf("token should be expired two hours later")
	}

	if _, err := tm.ValidateToken(tok); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if _, err := NewTokenManager("other", "").ValidateToken(tok); err == nil {
		t.Fatalf("expected validation with another secret to fail")
	}
}

func TestParseUnverifiedOpaqueToken(t *testing.T) {
	if _, err := ParseUnverified("mock-jwt-token-123"); !errors.Is(err, ErrNotJWT) {
		t.Fatalf("expected ErrNotJWT, got %v", err)
	}
}

func TestCamelCaseTenantClaim(t *testing.T) {
	c := &Claims{TenantIDCamel: "iorta"}
	if c.Tenant() != "iorta" {
		t.Fatalf("expected camelCase tenant claim to be read")
	}
}

func TestDemoUsers(t *testing.T) {
	us := NewUserStoreWithCost(bcrypt.MinCost)

	u, err := us.Authenticate("admin@technxt.com", "password", "technxt")
	if err != nil {
		t.Fatalf("expected technxt admin to authenticate: %v", err)
	}
	if u.TenantID != "technxt" {
		t.Fatalf("unexpected tenant %s", u.TenantID)
	}

	if _, err := us.Authenticate("admin@technxt.com", "password", "iorta"); err == nil {
		t.Fatalf("expected technxt admin to be rejected under iorta")
	}
	if _, err := us.Authenticate("admin@technxt.com", "wrong", "technxt"); err == nil {
		t.Fatalf("expected wrong password to fail")
	}
	if _, err := us.Authenticate("nobody@example.com", "password", "technxt"); err == nil {
		t.Fatalf("expected unknown user to fail")
	}

	wild, err := us.Authenticate("ADMIN@example.com ", "password", "demo")
	if err != nil {
		t.Fatalf("expected wildcard admin to authenticate: %v", err)
	}
	if wild.TenantID != "demo" {
		t.Fatalf("expected wildcard admin bound to demo, got %s", wild.TenantID)
	}
}
