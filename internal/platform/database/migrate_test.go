package database

import (
	"context"
	"path/filepath"
	"testing"
	"todo_app/internal/platform/config"
)

func TestMigrateSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:       config.DriverSQLite,
		DBConnStr:      "file:" + filepath.Join(t.TempDir(), "migrate.db"),
		DBMaxOpenConns: 2,
	}
	db, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	applied, err := Migrate(context.Background(), db, cfg.DBDriver)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	// The additive migration must leave a nullable phone_number column.
	if _, err := db.Exec(`INSERT INTO users (email, username, first_name, last_name, hashed_password, role)
		VALUES ('a@example.com', 'a', 'A', 'B', 'x', 'user')`); err != nil {
		t.Fatalf("insert without phone_number: %v", err)
	}
	var phone *string
	if err := db.QueryRow(`SELECT phone_number FROM users WHERE username = 'a'`).Scan(&phone); err != nil {
		t.Fatalf("select phone_number: %v", err)
	}
	if phone != nil {
		t.Errorf("phone_number = %q, want NULL", *phone)
	}

	again, err := Migrate(context.Background(), db, cfg.DBDriver)
	if err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if again != 0 {
		t.Errorf("second Migrate applied %d, want 0", again)
	}
}

func TestMigrateUnknownDriver(t *testing.T) {
	if _, err := Migrate(context.Background(), nil, "mysql"); err == nil {
		t.Fatal("Migrate succeeded for unknown driver")
	}
}
