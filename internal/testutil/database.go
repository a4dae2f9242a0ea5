// Package testutil provides shared helpers for tests that need a real
// key-value store.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/expense-tracker/internal/storage"
)

// SetupTestKV creates a migrated in-memory SQLite store that is closed
// when the test finishes.
//
// Example:
//
//	kv := testutil.SetupTestKV(t)
//	store := ledger.New(ledger.Options{KV: kv})
func SetupTestKV(t *testing.T) *storage.SQLiteKV {
	t.Helper()

	kv, err := storage.NewSQLiteKV(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := kv.Migrate(context.Background()); err != nil {
		_ = kv.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = kv.Close()
	})

	return kv
}

// MustPut stores value under key or fails the test.
func MustPut(t *testing.T, kv *storage.SQLiteKV, key, value string) {
	t.Helper()
	if err := kv.Put(context.Background(), key, []byte(value)); err != nil {
		t.Fatalf("failed to seed %q: %v", key, err)
	}
}
