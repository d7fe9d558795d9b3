package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"bookkeeping/internal/config"
	"bookkeeping/internal/log"
	"bookkeeping/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	app := config.Defaults()
	app.SessionBackend = "memory"
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != MemoryBackend {
		t.Fatalf("Type = %s, want memory", cfg.Type)
	}

	app.SessionBackend = "cookie"
	_, err = FromAppConfig(app)
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "[sqlite memory]") {
		t.Errorf("error %q should list the valid backends", err)
	}
}

func TestCreateBackend(t *testing.T) {
	f := NewFactory(log.Discard())
	ctx := context.Background()

	res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	if _, ok := res.Storage.(*storage.MemoryStorage); !ok {
		t.Fatalf("expected *storage.MemoryStorage, got %T", res.Storage)
	}

	res, err = f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "s.db")})
	if err != nil {
		t.Fatalf("sqlite backend: %v", err)
	}
	if _, ok := res.Storage.(*storage.SQLiteStorage); !ok {
		t.Fatalf("expected *storage.SQLiteStorage, got %T", res.Storage)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend}); err == nil {
		t.Fatal("expected error for sqlite without path")
	}
}
