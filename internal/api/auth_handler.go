package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/api/shared"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/logger"
	"github.com/Shreytangani17/Task-Mangement-System/internal/service"
	"github.com/Shreytangani17/Task-Mangement-System/internal/service/auth"
)

// Authenticator verifies credentials and issues tokens.
type Authenticator interface {
	Login(ctx context.Context, creds auth.Credentials) (*auth.LoginResult, error)
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	users         service.UserService
	authenticator Authenticator
	tokens        auth.JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	authenticator Authenticator,
	tokens auth.JWTService,
) *AuthHandler {
	return &AuthHandler{
		users:         users,
		authenticator: authenticator,
		tokens:        tokens,
	}
}

// Register handles POST /api/auth/register. Self-registered accounts are
// always employees.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	token, err := h.tokens.GenerateToken(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(h.tokens.TokenLifetime()),
		User:      user.Public(),
	})
}

// Login handles POST /api/auth/login. Unknown accounts and wrong passwords
// produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authenticator.Login(r.Context(), auth.Credentials{
		Identifier: req.Email,
		Secret:     req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContext(r.Context()).Debug("login succeeded", "user_id", result.User.ID)
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}
