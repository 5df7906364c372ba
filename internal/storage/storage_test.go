package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"
)

func openTemp(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "mysql"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestOpenSQLiteAppliesSchema(t *testing.T) {
	db := openTemp(t)

	for _, table := range []string{"stores", "users", "job_logs", "job_comments"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"0002_extra.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE extra(id INTEGER PRIMARY KEY);\n-- +migrate Down\nDROP TABLE extra;"),
		},
	}
	if err := ApplyMigrations(ctx, db, fsys); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := ApplyMigrations(ctx, db, fsys); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE name = '0002_extra.sql'").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one record, got %d", n)
	}
}

func TestApplyMigrationsDoesNotRecordFailure(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	bad := fstest.MapFS{
		"0003_bad.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREAT TABLE nope(id INT);")},
	}
	if err := ApplyMigrations(ctx, db, bad); err == nil {
		t.Fatal("expected error for bad migration")
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE name = '0003_bad.sql'").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("failed migration was recorded")
	}
}

func TestUpSection(t *testing.T) {
	got := upSection("-- +migrate Up\nA;\n-- +migrate Down\nB;")
	if got != "\nA;\n" {
		t.Errorf("upSection = %q", got)
	}
	if upSection("C;") != "C;" {
		t.Error("content without markers should pass through")
	}
}

func TestMillisRoundTrip(t *testing.T) {
	ts := time.Date(2025, 4, 10, 9, 15, 0, 0, time.UTC)
	if got := FromMillis(ToMillis(ts)); !got.Equal(ts) {
		t.Errorf("round trip = %v, want %v", got, ts)
	}
}
