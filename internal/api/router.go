package api

import (
	"net/http"
	"time"
	"todo_app/internal/api/handler"
	"todo_app/internal/app/service"
	"todo_app/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	// RequestTimeout bounds each handler through the request context.
	RequestTimeout = 8 * time.Second
	// WriteTimeout is for http.Server. It leaves room for the 504 written
	// when RequestTimeout fires.
	WriteTimeout = RequestTimeout + 2*time.Second
)

func NewRouter(
	tokens *security.TokenAuthority,
	authService *service.AuthService,
	todoService *service.TodoService,
	userService *service.UserService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(RequestTimeout))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Registration and token issuance (public)
	authHandler := handler.NewAuthHandler(authService)
	r.Route("/auth", authHandler.RegisterRoutes)

	// Owner-scoped todos (authenticated)
	todoHandler := handler.NewTodoHandler(todoService, tokens)
	r.Route("/todo", todoHandler.RegisterRoutes)

	// Every todo (admin role)
	adminHandler := handler.NewAdminHandler(todoService, tokens)
	r.Route("/admin", adminHandler.RegisterRoutes)

	// The caller's own profile (authenticated)
	userHandler := handler.NewUserHandler(userService, tokens)
	r.Route("/user", userHandler.RegisterRoutes)

	return r
}
