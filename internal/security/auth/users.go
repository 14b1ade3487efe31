package auth

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// AnyTenant marks a demo user that may sign in under every tenant
const AnyTenant = "*"

// DemoUser is an offline login accepted when the backend is unreachable
type DemoUser struct {
	ID        string
	Email     string
	Name      string
	FirstName string
	LastName  string
	TenantID  string // Backend tenant, or AnyTenant
	hash      []byte
}

type demoSeed struct {
	id, email, password, first, last, tenant string
}

var demoSeeds = []demoSeed{
	{"demo-technxt-1", "admin@technxt.com", "password", "TechNXT", "Admin", "technxt"},
	{"demo-iorta-1", "admin@iorta.com", "password", "Iorta", "Admin", "iorta"},
	{"demo-admin-1", "admin@example.com", "password", "Admin", "User", AnyTenant},
}

// UserStore is the fixed demo credential table
type UserStore struct {
	once    sync.Once
	cost    int
	users   map[string]*DemoUser // email -> user
	initErr error
}

// NewUserStore creates the demo table. Hashes are computed on first use.
func NewUserStore() *UserStore {
	return &UserStore{cost: bcrypt.DefaultCost}
}

// NewUserStoreWithCost lets tests use a cheaper bcrypt cost
func NewUserStoreWithCost(cost int) *UserStore {
	return &UserStore{cost: cost}
}

func (us *UserStore) init() {
	us.users = make(map[string]*DemoUser, len(demoSeeds))
	for _, s := range demoSeeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), us.cost)
		if err != nil {
			us.initErr = fmt.Errorf("failed to hash demo password: %w", err)
			return
		}
		us.users[s.email] = &DemoUser{
			ID:        s.id,
			Email:     s.email,
			Name:      s.first + " " + s.last,
			FirstName: s.first,
			LastName:  s.last,
			TenantID:  s.tenant,
			hash:      hash,
		}
	}
}

// Authenticate verifies credentials for backendTenant and returns the user
func (us *UserStore) Authenticate(email, password, backendTenant string) (*DemoUser, error) {
	us.once.Do(us.init)
	if us.initErr != nil {
		return nil, us.initErr
	}

	user, exists := us.users[strings.ToLower(strings.TrimSpace(email))]
	if !exists {
		return nil, fmt.Errorf("user not found")
	}
	if err := bcrypt.CompareHashAndPassword(user.hash, []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid password")
	}
	if user.TenantID != AnyTenant && user.TenantID != backendTenant {
		return nil, fmt.Errorf("user not found")
	}

	out := *user
	if out.TenantID == AnyTenant {
		out.TenantID = backendTenant
	}
	return &out, nil
}
