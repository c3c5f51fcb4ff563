// Package testutil provides shared test helpers. All helpers call t.Fatalf
// on failure since setup failures are not recoverable.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"todo_app/internal/platform/config"
	"todo_app/internal/platform/database"
)

// NewDB returns a migrated SQLite database in a fresh temp directory. It is
// closed when the test completes.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()
	cfg := &config.Config{
		DBDriver:       config.DriverSQLite,
		DBConnStr:      "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		DBMaxOpenConns: 4,
	}
	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := database.Migrate(context.Background(), db, cfg.DBDriver); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
