package handler

import (
	"net/http"
	"todo_app/internal/api/middleware"
	"todo_app/internal/app/service"
	"todo_app/internal/common"
	"todo_app/internal/common/security"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
	tokens      *security.TokenAuthority
}

func NewUserHandler(us *service.UserService, tokens *security.TokenAuthority) *UserHandler {
	return &UserHandler{userService: us, tokens: tokens}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator(h.tokens))
	r.Get("/", h.getUser)
	r.Put("/change_password", h.changePassword)
	r.Put("/update_phone_number", h.updatePhoneNumber)
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	user, err := h.userService.Profile(r.Context(), principal.ID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	var req service.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	if err := h.userService.ChangePassword(r.Context(), principal.ID, req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, nil)
}

func (h *UserHandler) updatePhoneNumber(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	var req service.UpdatePhoneNumberRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	if err := h.userService.UpdatePhoneNumber(r.Context(), principal.ID, req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, nil)
}
