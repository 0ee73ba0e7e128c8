package sqlitedb

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenAndMigrate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		path string
	}{
		{"memory", MemoryPath},
		{"file", filepath.Join(t.TempDir(), "test.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := Open(ctx, tt.path)
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			defer db.Close()

			err = Migrate(ctx, db,
				`CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v TEXT)`,
				`CREATE INDEX IF NOT EXISTS idx_kv_v ON kv(v)`,
			)
			if err != nil {
				t.Fatalf("Migrate() error: %v", err)
			}

			if _, err := db.ExecContext(ctx, `INSERT INTO kv (k, v) VALUES ('a', 'b')`); err != nil {
				t.Fatalf("insert failed: %v", err)
			}
			var v string
			if err := db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = 'a'`).Scan(&v); err != nil || v != "b" {
				t.Fatalf("expected b, got %q (%v)", v, err)
			}
		})
	}
}

func TestMigrate_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, MemoryPath)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	err = Migrate(ctx, db,
		`CREATE TABLE t1 (id INTEGER)`,
		`THIS IS NOT SQL`,
	)
	if err == nil {
		t.Fatal("expected migration error")
	}

	var n int
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE name = 't1'`).Scan(&n)
	if n != 0 {
		t.Errorf("expected t1 to be rolled back, found %d", n)
	}
}
