package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/packsmith/packsmith/internal/service"
)

// The storage must satisfy the persistence contract.
var _ service.Storage = (*SQLiteStorage)(nil)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStorage(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}
