package handler

import (
	"net/http"
	"todo_app/internal/api/middleware"
	"todo_app/internal/app/service"
	"todo_app/internal/common"
	"todo_app/internal/common/security"

	"github.com/go-chi/chi/v5"
)

type TodoHandler struct {
	todoService *service.TodoService
	tokens      *security.TokenAuthority
}

func NewTodoHandler(ts *service.TodoService, tokens *security.TokenAuthority) *TodoHandler {
	return &TodoHandler{todoService: ts, tokens: tokens}
}

func (h *TodoHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator(h.tokens))
	r.Get("/", h.listTodos)             // GET /todo/
	r.Post("/", h.createTodo)           // POST /todo/
	r.Get("/{todoID}", h.getTodo)       // GET /todo/7
	r.Put("/{todoID}", h.updateTodo)    // PUT /todo/7
	r.Delete("/{todoID}", h.deleteTodo) // DELETE /todo/7
}

func (h *TodoHandler) listTodos(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	todos, err := h.todoService.ListForOwner(r.Context(), principal.ID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) getTodo(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	todoID, err := pathID(r, "todoID")
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	todo, err := h.todoService.GetForOwner(r.Context(), principal.ID, todoID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) createTodo(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	var req service.TodoRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	todo, err := h.todoService.Create(r.Context(), principal.ID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) updateTodo(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	todoID, err := pathID(r, "todoID")
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	var req service.TodoRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	if err := h.todoService.Update(r.Context(), principal.ID, todoID, req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *TodoHandler) deleteTodo(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	todoID, err := pathID(r, "todoID")
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	if err := h.todoService.DeleteForOwner(r.Context(), principal.ID, todoID); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondNoContent(w)
}
