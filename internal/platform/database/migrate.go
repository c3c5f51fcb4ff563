package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"todo_app/internal/platform/config"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

var dialects = map[string]struct {
	dialect goose.Dialect
	dir     string
}{
	config.DriverPostgres: {goose.DialectPostgres, "migrations/postgres"},
	config.DriverSQLite:   {goose.DialectSQLite3, "migrations/sqlite"},
}

// Migrate applies every pending migration for driver and returns the number
// applied.
func Migrate(ctx context.Context, db *sql.DB, driver string) (int, error) {
	d, ok := dialects[driver]
	if !ok {
		return 0, fmt.Errorf("no migrations for driver %q", driver)
	}
	fsys, err := fs.Sub(migrationsFS, d.dir)
	if err != nil {
		return 0, fmt.Errorf("migrations dir %s: %w", d.dir, err)
	}

	provider, err := goose.NewProvider(d.dialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		log.Printf("INFO: applied migration %s (%s)", r.Source.Path, r.Duration)
	}
	return len(results), nil
}
