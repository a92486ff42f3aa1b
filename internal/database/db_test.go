package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T, ctx context.Context) *Database {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(ctx, dbPath, "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("db close failed: %v", err)
		}
	})
	return db
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if err := db.Close(); err != nil {
		t.Fatalf("db close failed: %v", err)
	}
	reopened, err := Open(ctx, db.Path(), "")
	if err != nil {
		t.Fatalf("Open second run failed: %v", err)
	}
	if err := reopened.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}

func TestOpenHoldsLock(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if _, err := Open(ctx, db.Path(), ""); !errors.Is(err, ErrLocked) {
		t.Fatalf("second Open err = %v, want ErrLocked", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	again, err := Open(ctx, db.Path(), "")
	if err != nil {
		t.Fatalf("Open after Close failed: %v", err)
	}
	_ = again.Close()
}

func TestOpenCorruptedFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "broken.db")
	junk := make([]byte, 4096)
	for i := range junk {
		junk[i] = byte(i*7 + 3)
	}
	if err := os.WriteFile(path, junk, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Open(ctx, path, ""); !errors.Is(err, ErrDatabaseCorrupted) {
		t.Fatalf("Open err = %v, want ErrDatabaseCorrupted", err)
	}
}

func TestOpError(t *testing.T) {
	base := errors.New("boom")
	err := wrapErr(EntityRecord, "get", "c1", base)
	if !errors.Is(err, base) {
		t.Fatalf("OpError should unwrap to its cause")
	}
	if got := err.Error(); got != "get record c1: boom" {
		t.Fatalf("Error() = %q", got)
	}
	if wrapErr(EntityRecord, "get", "c1", nil) != nil {
		t.Fatalf("wrapErr(nil) should be nil")
	}
	var opErr *OpError
	if !errors.As(wrapErr(EntitySetting, "set", "", base), &opErr) || opErr.Resource != EntitySetting {
		t.Fatalf("errors.As failed for OpError")
	}
}
