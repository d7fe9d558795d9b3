package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func exerciseLocalStorage(t *testing.T, s LocalStorage) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.GetItem(ctx, "user"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	if err := s.SetItem(ctx, "user", `{"id":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetItem(ctx, "user", `{"id":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.GetItem(ctx, "user")
	if err != nil || !ok || v != `{"id":2}` {
		t.Fatalf("unexpected get: v=%q ok=%v err=%v", v, ok, err)
	}

	if err := s.RemoveItem(ctx, "user"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.GetItem(ctx, "user"); ok {
		t.Fatal("expected key to be gone after remove")
	}
	// Removing a missing key is a no-op.
	if err := s.RemoveItem(ctx, "user"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	exerciseLocalStorage(t, NewMemoryStorage())
}

func TestSQLiteStorage(t *testing.T) {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "session.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	exerciseLocalStorage(t, s)
}

func TestSQLiteStorageSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	s, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SetItem(ctx, "user", "persisted"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Migrations must be idempotent on an existing file.
	s, err = NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	v, ok, err := s.GetItem(ctx, "user")
	if err != nil || !ok || v != "persisted" {
		t.Fatalf("unexpected get after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
}

func TestSQLiteStorageClosed(t *testing.T) {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Close()
	if err := s.SetItem(context.Background(), "k", "v"); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
