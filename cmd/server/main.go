package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"todo_app/internal/api"
	"todo_app/internal/app/service"
	"todo_app/internal/common/security"
	"todo_app/internal/domain/repository"
	"todo_app/internal/platform/cache"
	"todo_app/internal/platform/config"
	"todo_app/internal/platform/database"

	flag "github.com/spf13/pflag"
)

func main() {
	envFile := flag.String("env-file", ".env", "path to an optional dotenv file")
	migrate := flag.Bool("migrate", true, "apply pending database migrations on startup")
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations and exit")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("FATAL: loading configuration: %v", err)
	}
	log.Println("Configuration loaded.")

	// 2. Initialize Database
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	db, err := database.Open(startupCtx, cfg)
	if err != nil {
		log.Fatalf("FATAL: connecting to database: %v", err)
	}
	defer database.Close(db)
	log.Printf("Database connected (driver %s).", cfg.DBDriver)

	if *migrate || *migrateOnly {
		applied, err := database.Migrate(startupCtx, db, cfg.DBDriver)
		if err != nil {
			log.Fatalf("FATAL: migrating database: %v", err)
		}
		log.Printf("Migrations applied: %d", applied)
	}
	if *migrateOnly {
		return
	}

	// 3. Initialize Redis (optional list cache)
	var todoCache cache.TodoCache = cache.NoopTodoCache{}
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(startupCtx, cfg)
		if err != nil {
			log.Fatalf("FATAL: connecting to redis: %v", err)
		}
		defer cache.CloseRedis(rdb)
		todoCache = cache.NewRedisTodoCache(rdb, cfg.TodoCacheTTL)
		log.Println("Redis connected, todo list cache enabled.")
	}

	// 4. Initialize Security
	passwords := security.NewPasswordHasher(cfg.BcryptCost)
	tokens := security.NewTokenAuthority(cfg.JWTKey, cfg.JWTExp)

	// 5. Initialize Repositories
	userRepo := repository.NewSQLUserRepository(db)
	todoRepo := repository.NewSQLTodoRepository(db)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, passwords, tokens)
	todoService := service.NewTodoService(todoRepo, todoCache, db)
	userService := service.NewUserService(userRepo, passwords, db)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(tokens, authService, todoService, userService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: api.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: server shutdown failed: %v", err)
		return
	}

	log.Println("Server stopped gracefully.")
}
