// Package dbtest provisions a migrated throwaway schema for store-backed
// tests. Tests are skipped unless TEST_DATABASE_URL is set.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodbank/bloodbank-api/internal/platform/db"
)

const envURL = "TEST_DATABASE_URL"

// MigrationsDir is the repository's migrations directory.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}

// Open returns a pool whose search_path is a fresh schema with all
// migrations applied. The schema is dropped when the test ends.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv(envURL)
	if url == "" {
		t.Skipf("%s not set, skipping store-backed test", envURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())

	admin, err := db.NewPool(ctx, url, 2, 0, "")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := db.NewMigrator(admin, MigrationsDir(), schema).Up(ctx); err != nil {
		admin.Close()
		t.Fatalf("migrate: %v", err)
	}

	pool, err := db.NewPool(ctx, url, 4, 0, schema)
	if err != nil {
		admin.Close()
		t.Fatalf("connect to %s: %v", schema, err)
	}

	t.Cleanup(func() {
		pool.Close()
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+pgx.Identifier{schema}.Sanitize()+" CASCADE")
		admin.Close()
	})
	return pool
}

// Exec runs fixture statements, failing the test on error.
func Exec(t *testing.T, pool *pgxpool.Pool, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		if _, err := pool.Exec(context.Background(), s); err != nil {
			t.Fatalf("fixture %q: %v", s, err)
		}
	}
}
