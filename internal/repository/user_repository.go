package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// UserRepositoryImpl implements domain.UserRepository on Oracle.
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new Oracle-backed user repository.
func NewUserRepository(db *sqlx.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

const userColumns = `id "id", email "email", username "username", password_hash "password_hash",
	google_id "google_id", created_at "created_at", updated_at "updated_at", deleted_at "deleted_at"`

// CreateUser persists a new user row. A duplicate email surfaces as a
// validation error so the handler reports a 400, not a 500.
func (r *UserRepositoryImpl) CreateUser(ctx context.Context, user *domain.User) error {
	exec := GetExecutor(ctx, r.db)
	row := models.UserFromDomain(user)
	query := `INSERT INTO users (id, email, username, password_hash, google_id, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5, :6, :7)`
	if _, err := exec.ExecContext(ctx, query,
		row.ID, row.Email, row.Username, row.PasswordHash, row.GoogleID,
		row.CreatedAt, row.UpdatedAt); err != nil {
		if util.IsUniqueViolation(err) {
			return domain.NewValidationError("email is already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepositoryImpl) getUserBy(ctx context.Context, column, value string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = :1 AND deleted_at IS NULL`, userColumns, column)

	var row models.User
	if err := exec.GetContext(ctx, &row, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return row.ToDomain(), nil
}

// GetUserByID retrieves a user by primary key, nil when absent.
func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getUserBy(ctx, "id", userID)
}

// GetUserByEmail retrieves a user by email, nil when absent.
func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUserBy(ctx, "email", email)
}

// GetUserByGoogleID retrieves a user by Google account ID, nil when absent.
func (r *UserRepositoryImpl) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getUserBy(ctx, "google_id", googleID)
}

// UpdateUser updates a user's mutable fields.
func (r *UserRepositoryImpl) UpdateUser(ctx context.Context, user *domain.User) error {
	exec := GetExecutor(ctx, r.db)
	row := models.UserFromDomain(user)
	query := `UPDATE users SET email = :1, username = :2, password_hash = :3, google_id = :4, updated_at = :5
		WHERE id = :6`
	result, err := exec.ExecContext(ctx, query,
		row.Email, row.Username, row.PasswordHash, row.GoogleID, row.UpdatedAt, row.ID)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("user not found with ID: %s", user.ID))
	}
	return nil
}
