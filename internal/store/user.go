package store

import (
	"context"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/google/uuid"
)

// UserStore defines the interface for user data persistence. It is the
// credential store adapter used by the login path.
type UserStore interface {
	// Create saves a new user with an already hashed password.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user, including the password hash, by their
	// login identifier. Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdatePasswordHash replaces the stored hash for the user identified by email.
	// Returns ErrUserNotFound if the user does not exist.
	UpdatePasswordHash(ctx context.Context, email, hashedPassword string) error

	// UpdatePasswordHashIf replaces the stored hash only while it still equals
	// previousHash. Returns ErrPasswordHashChanged if it does not, and
	// ErrUserNotFound if the user does not exist.
	UpdatePasswordHashIf(ctx context.Context, email, previousHash, hashedPassword string) error

	// UpdateRole changes a user's role.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error

	// ListByRole returns users with the given role ordered by name.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// List returns every user ordered by name.
	List(ctx context.Context) ([]*domain.User, error)
}
