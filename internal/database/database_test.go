package database

import (
	"path/filepath"
	"testing"

	"github.com/iyunix/go-saber/internal/domain"
)

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "whatever"); err == nil {
		t.Fatalf("expected unknown driver to be rejected")
	}
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "saber.db")
	db, err := Open("SQLite", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, model := range []any{&domain.User{}, &domain.Conversation{}, &domain.Message{}} {
		if !db.Migrator().HasTable(model) {
			t.Fatalf("expected table for %T", model)
		}
	}
}
