package featureflags

import (
	"os"
	"strings"
)

// DemoLogin enables the offline demo credential table outside development
const DemoLogin = "DEMO_LOGIN"

// Lookup reads raw flag values. os.LookupEnv satisfies it.
type Lookup func(key string) (string, bool)

// Flags reads FLAG_<NAME>=true/1/yes/on (case-insensitive)
type Flags struct {
	lookup Lookup
}

func New(lookup Lookup) *Flags {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Flags{lookup: lookup}
}

// FromMap is for tests
func FromMap(values map[string]string) *Flags {
	return New(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	})
}

func (f *Flags) Enabled(name string) bool {
	v, _ := f.lookup("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
