package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aryan0dhankhar/leaddesk/internal/domain"
	"github.com/aryan0dhankhar/leaddesk/internal/infrastructure/redis"
)

func exerciseStorage(t *testing.T, s domain.Storage) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := s.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	v, err := s.Get(ctx, "k")
	if err != nil || v != "v2" {
		t.Fatalf("expected v2, got %q err=%v", v, err)
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("second remove should be a no-op, got %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected removed key to be gone, got %v", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	exerciseStorage(t, NewFileStorage(path, nil))
}

func TestFileStoragePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")

	if err := NewFileStorage(path, nil).Set(ctx, domain.KeySelectedTenant, "tenant2"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v, err := NewFileStorage(path, nil).Get(ctx, domain.KeySelectedTenant)
	if err != nil || v != "tenant2" {
		t.Fatalf("expected tenant2 from a fresh instance, got %q err=%v", v, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestFileStorageCorruptFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	s := NewFileStorage(path, nil)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected corrupt file to read as empty, got %v", err)
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set over corrupt file failed: %v", err)
	}
}

func TestRedisStorage(t *testing.T) {
	url := os.Getenv("LEADDESK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Integration test requires redis - set LEADDESK_TEST_REDIS_URL")
	}
	client, err := redis.NewClient(context.Background(), url, "leaddesk-test:", nil)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer client.Close()

	exerciseStorage(t, NewRedisStorage(client))
}
