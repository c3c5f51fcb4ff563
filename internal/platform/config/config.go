package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"

	defaultJWTSecret = "defaultsecret"
)

type Config struct {
	APIPort    string
	JWTKey     []byte
	JWTExp     time.Duration
	BcryptCost int

	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBPath         string
	DBConnStr      string
	DBMaxOpenConns int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TodoCacheTTL  time.Duration
}

// Load reads envFile (if present) into the process environment and builds a
// Config from it. The returned value is never mutated afterwards.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("No %s file found, relying on environment variables", envFile)
		}
	}

	cfg := &Config{
		APIPort:    getEnv("API_PORT", "8080"),
		JWTKey:     []byte(getEnv("JWT_SECRET", defaultJWTSecret)),
		JWTExp:     time.Duration(getEnvAsInt("JWT_EXPIRATION_MINUTES", 20)) * time.Minute,
		BcryptCost: getEnvAsInt("BCRYPT_COST", 10),

		DBDriver:       getEnv("DB_DRIVER", DriverPostgres),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "user"),
		DBPassword:     getEnv("DB_PASSWORD", "password"),
		DBName:         getEnv("DB_NAME", "todo_app_db"),
		DBSslMode:      getEnv("DB_SSLMODE", "disable"),
		DBPath:         getEnv("DB_PATH", "todo_app.db"),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		TodoCacheTTL:  time.Duration(getEnvAsInt("TODO_CACHE_TTL_SECONDS", 60)) * time.Second,
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		cfg.DBConnStr = "host=" + cfg.DBHost +
			" port=" + cfg.DBPort +
			" user=" + cfg.DBUser +
			" password=" + cfg.DBPassword +
			" dbname=" + cfg.DBName +
			" sslmode=" + cfg.DBSslMode
	case DriverSQLite:
		cfg.DBConnStr = "file:" + cfg.DBPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want %q or %q)", cfg.DBDriver, DriverPostgres, DriverSQLite)
	}

	if cfg.JWTExp <= 0 {
		return nil, errors.New("JWT_EXPIRATION_MINUTES must be positive")
	}
	if len(cfg.JWTKey) == 0 {
		return nil, errors.New("JWT_SECRET must not be empty")
	}
	if string(cfg.JWTKey) == defaultJWTSecret {
		log.Println("WARN: JWT_SECRET is not set, using the development default")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
