package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/api/shared"
	"github.com/Shreytangani17/Task-Mangement-System/internal/cache"
	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/logger"
	"github.com/Shreytangani17/Task-Mangement-System/internal/service/auth"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/google/uuid"
)

// DefaultPrincipalCacheTTL bounds how long a token's user lookup is reused.
const DefaultPrincipalCacheTTL = 5 * time.Minute

// UserLookup resolves the user a token was issued to.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AuthMiddleware provides JWT authentication for routes. The user behind a
// valid token is cached so most requests skip the store; Evict drops an
// entry when the user's role or password changes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      UserLookup
	principals *cache.Cache[domain.PublicUser]
	ttl        time.Duration
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(
	jwtService auth.JWTService,
	users UserLookup,
	ttl time.Duration,
	logger *slog.Logger,
	opts ...cache.Option,
) *AuthMiddleware {
	if ttl <= 0 {
		ttl = DefaultPrincipalCacheTTL
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		principals: cache.New[domain.PublicUser](opts...),
		ttl:        ttl,
		logger:     logger.With("component", "auth_middleware"),
	}
}

// Authenticate validates the bearer token and stores the caller in the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		principal, err := m.principal(r.Context(), claims.UserID)
		if err != nil {
			if store.IsNotFoundError(err) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Authentication temporarily unavailable", err)
			return
		}

		ctx := shared.WithPrincipal(r.Context(), principal)
		ctx = logger.WithLogger(ctx, logger.FromContextOrDefault(ctx, m.logger).With("user_id", principal.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Evict drops the cached principal for userID.
func (m *AuthMiddleware) Evict(userID uuid.UUID) {
	m.principals.Delete(userID.String())
}

func (m *AuthMiddleware) principal(ctx context.Context, userID uuid.UUID) (domain.PublicUser, error) {
	key := userID.String()
	if cached, _, ok := m.principals.Get(key); ok {
		return cached, nil
	}

	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return domain.PublicUser{}, err
	}
	public := user.Public()
	m.principals.Put(key, public, m.ttl)
	return public, nil
}

// AdminOnly rejects callers whose role is not admin. It must run after
// Authenticate.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := shared.PrincipalFromContext(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
		if principal.Role != domain.RoleAdmin {
			shared.RespondWithError(w, r, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
