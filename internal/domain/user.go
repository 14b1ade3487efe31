package domain

import (
	"context"
	"errors"
	"strings"
)

// ErrNoSession is returned when no complete session is stored
var ErrNoSession = errors.New("no active session")

// User is the profile of the signed-in user
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Tenant    string `json:"tenant,omitempty"`
}

// DisplayName returns the best available human name
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	return u.Email
}

// Session is the authenticated state held between commands
type Session struct {
	Token    string // Bearer token
	TenantID string // Backend tenant the token was issued under
	User     User
}

// Tenant is a customer partition known to the client
type Tenant struct {
	Key         string // Frontend key, e.g. tenant1
	Name        string
	BackendID   string // Identifier sent in the tenant header
	Registrable bool   // Offered on the registration form
}

// Storage is the key/value port standing in for browser local storage
type Storage interface {
	Get(ctx context.Context, key string) (string, error) // repository.ErrNotFound when absent
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Storage keys shared with the original web client
const (
	KeyAuthToken      = "authToken"
	KeyTenantID       = "tenantId"
	KeySelectedTenant = "selectedTenant"
	KeyUser           = "user"
)
