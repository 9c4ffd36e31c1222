package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/platelog/platelog-backend/internal/config"
)

func TestNewDocStore_Memory(t *testing.T) {
	cfg := config.NewForTesting()

	store, err := NewDocStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewDocStore: %v", err)
	}
	if store == nil {
		t.Fatal("nil store for memory driver")
	}
}

func TestNewDocStore_SQLite(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.StoreDriver = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "diary.db")

	store, err := NewDocStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewDocStore: %v", err)
	}
	if store == nil {
		t.Fatal("nil store for sqlite driver")
	}
}

func TestNewDocStore_FirestoreRequiresProject(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.StoreDriver = "firestore"
	cfg.FirestoreProjectID = ""

	if _, err := NewDocStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error when project id is missing")
	}
}

func TestNewDocStore_UnknownDriver(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.StoreDriver = "tape"

	if _, err := NewDocStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
