package handler

import (
	"net/http"
	"todo_app/internal/api/middleware"
	"todo_app/internal/app/service"
	"todo_app/internal/common"
	"todo_app/internal/common/security"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	todoService *service.TodoService
	tokens      *security.TokenAuthority
}

func NewAdminHandler(ts *service.TodoService, tokens *security.TokenAuthority) *AdminHandler {
	return &AdminHandler{todoService: ts, tokens: tokens}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator(h.tokens))
	r.Use(middleware.AdminOnly)
	r.Get("/", h.listAllTodos)
	r.Delete("/{todoID}", h.deleteTodo)
}

func (h *AdminHandler) listAllTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todoService.ListAll(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, todos)
}

func (h *AdminHandler) deleteTodo(w http.ResponseWriter, r *http.Request) {
	todoID, err := pathID(r, "todoID")
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	if err := h.todoService.DeleteAny(r.Context(), todoID); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondNoContent(w)
}
