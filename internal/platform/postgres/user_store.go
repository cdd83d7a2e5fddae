package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/logger"
	"github.com/Shreytangani17/Task-Mangement-System/internal/redact"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/google/uuid"
)

const userColumns = `id, name, email, role, hashed_password, created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	return &PostgresUserStore{
		db:     db,
		logger: logger.With("component", "user_store"),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Name, user.Email, string(user.Role), user.HashedPassword, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if !IsUniqueViolation(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert user",
				"error", redact.Error(err),
				"email", redact.Email(user.Email))
		}
		return store.NewStoreError("user", "create", "insert failed", MapUniqueViolation(err, store.ErrEmailExists))
	}
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return s.scanUser(row)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		domain.NormalizeEmail(email))
	return s.scanUser(row)
}

// UpdatePasswordHash implements store.UserStore.UpdatePasswordHash
func (s *PostgresUserStore) UpdatePasswordHash(ctx context.Context, email, hashedPassword string) error {
	if hashedPassword == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyHashedPassword)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = $1, updated_at = $2 WHERE email = $3`,
		hashedPassword, time.Now().UTC(), domain.NormalizeEmail(email))
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// UpdatePasswordHashIf implements store.UserStore.UpdatePasswordHashIf
func (s *PostgresUserStore) UpdatePasswordHashIf(ctx context.Context, email, previousHash, hashedPassword string) error {
	if hashedPassword == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyHashedPassword)
	}

	email = domain.NormalizeEmail(email)
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = $1, updated_at = $2 WHERE email = $3 AND hashed_password = $4`,
		hashedPassword, time.Now().UTC(), email, previousHash)
	if err != nil {
		return MapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Nothing matched: either the user is gone or the hash moved on.
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return MapError(err)
	}
	if !exists {
		return store.ErrUserNotFound
	}
	return store.ErrPasswordHashChanged
}

// UpdateRole implements store.UserStore.UpdateRole
func (s *PostgresUserStore) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidRole)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`,
		string(role), time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// ListByRole implements store.UserStore.ListByRole
func (s *PostgresUserStore) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY name, id`,
		string(role))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := s.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return users, nil
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name, id`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := s.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return users, nil
}

func (s *PostgresUserStore) scanUser(row rowScanner) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &role, &user.HashedPassword, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}
	user.Role = domain.Role(role)
	return &user, nil
}
