package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTExp != 20*time.Minute {
		t.Errorf("JWTExp = %v, want 20m", cfg.JWTExp)
	}
	if string(cfg.JWTKey) != "s3cret" {
		t.Errorf("JWTKey = %q, want s3cret", cfg.JWTKey)
	}
	want := "host=localhost port=5432 user=user password=password dbname=todo_app_db sslmode=disable"
	if cfg.DBConnStr != want {
		t.Errorf("DBConnStr = %q, want %q", cfg.DBConnStr, want)
	}
}

func TestLoadSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_PATH", "/tmp/todos.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "file:/tmp/todos.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if cfg.DBConnStr != want {
		t.Errorf("DBConnStr = %q, want %q", cfg.DBConnStr, want)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"zero ttl", map[string]string{"DB_DRIVER": DriverPostgres, "JWT_EXPIRATION_MINUTES": "0"}},
		{"empty secret", map[string]string{"DB_DRIVER": DriverPostgres, "JWT_SECRET": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Fatal("Load succeeded, want error")
			}
		})
	}
}
