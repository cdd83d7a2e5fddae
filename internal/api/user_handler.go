package api

import (
	"net/http"

	"github.com/Shreytangani17/Task-Mangement-System/internal/api/shared"
	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/service"
)

// UserHandler handles account endpoints.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), principal.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// ChangePassword handles POST /api/users/me/password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.ChangePassword(r.Context(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangeRole handles PUT /api/users/{id}/role. Admin only.
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ChangeRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.ChangeRole(r.Context(), userID, domain.Role(req.Role))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// CreateUser handles POST /api/users. Admin only.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// ListEmployees handles GET /api/users/employees. Admin only.
func (h *UserHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListEmployees(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	respondWithUsers(w, r, users)
}

// ListUsers handles GET /api/users. Admin only.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	respondWithUsers(w, r, users)
}

func respondWithUsers(w http.ResponseWriter, r *http.Request, users []*domain.User) {
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userToResponse(u))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
