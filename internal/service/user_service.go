package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/events"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/logger"
	"github.com/Shreytangani17/Task-Mangement-System/internal/redact"
	"github.com/Shreytangani17/Task-Mangement-System/internal/service/auth"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/google/uuid"
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UserService provides account operations.
type UserService interface {
	// Register hashes the password at the target cost and creates the user.
	// Returns store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ListEmployees returns every user with the employee role.
	ListEmployees(ctx context.Context) ([]*domain.User, error)

	// ListUsers returns every user regardless of role.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// ChangePassword verifies the current password, stores a hash of the new
	// one and clears cached credentials for the account.
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error

	// ChangeRole updates a user's role and clears cached credentials for the
	// account.
	ChangeRole(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.Hasher
	emitter   events.EventEmitter
	logger    *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	hasher auth.Hasher,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		emitter:   emitter,
		logger:    logger.With("component", "user_service"),
	}
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, domain.NewValidationError("password", "cannot be hashed", err)
	}

	user, err := domain.NewUser(input.Name, input.Email, input.Role, digest)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register existing email", "email", redact.Email(user.Email))
		} else {
			log.Error("failed to save user", "error", err, "email", redact.Email(user.Email))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// GetUser implements UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// ListEmployees implements UserService.
func (s *UserServiceImpl) ListEmployees(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.ListByRole(ctx, domain.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return users, nil
}

// ListUsers implements UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ChangePassword implements UserService.
func (s *UserServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to retrieve user for password change: %w", err)
	}

	if !s.hasher.Verify(current, user.HashedPassword) {
		return ErrWrongPassword
	}
	if current == next {
		return ErrSamePassword
	}

	digest, err := s.hasher.Hash(next)
	if err != nil {
		return domain.NewValidationError("new_password", "cannot be hashed", err)
	}

	if err := s.userStore.UpdatePasswordHash(ctx, user.Email, digest); err != nil {
		log.Error("failed to store new password hash", "error", err, "user_id", userID)
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.emit(ctx, events.TypePasswordChanged, user)
	log.Info("password changed", "user_id", userID)
	return nil
}

// ChangeRole implements UserService.
func (s *UserServiceImpl) ChangeRole(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !role.Valid() {
		return nil, domain.NewValidationError("role", "must be admin or employee", domain.ErrInvalidRole)
	}

	if err := s.userStore.UpdateRole(ctx, userID, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user after role change: %w", err)
	}

	s.emit(ctx, events.TypeRoleChanged, user)
	log.Info("role changed", "user_id", userID, "role", role)
	return user, nil
}

// emit publishes a user change. The change is already stored, so a handler
// failure is logged rather than returned.
func (s *UserServiceImpl) emit(ctx context.Context, eventType string, user *domain.User) {
	event, err := events.NewUserChangedEvent(eventType, user.ID, user.Email)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to publish user change",
			"error", err,
			"event_type", eventType,
			"user_id", user.ID)
	}
}
