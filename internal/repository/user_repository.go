package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
)

const userColumns = `id, name, email, password_hash, role, reset_token_hash, reset_token_expires_at, created_at, updated_at`

// UserRepository provides database access for accounts and their reset state.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by normalised email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// EmailTaken reports whether email belongs to a user other than excludeID.
func (r *UserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	query := `SELECT 1 FROM users WHERE email = $1`
	args := []interface{}{email}
	if excludeID != "" {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+` LIMIT 1`, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check user email: %w", err)
	}
	return true, nil
}

// Create inserts a standalone user, used for admin accounts.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	prepareUser(user, time.Now().UTC())
	if _, err := r.db.NamedExecContext(ctx, insertUserQuery, user); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdatePassword replaces the password hash and clears any pending reset.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return expectAffected(res)
}

// SetResetToken stores the digest of a freshly issued reset token.
func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	const query = `UPDATE users SET reset_token_hash = $2, reset_token_expires_at = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, tokenHash, expiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return expectAffected(res)
}

// ConsumeResetToken sets a new password for the user holding an unexpired token with this digest
// and clears the token in the same statement. It reports false when no such user exists.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error) {
	const query = `UPDATE users SET password_hash = $1, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = $2
        WHERE reset_token_hash = $3 AND reset_token_expires_at > $2`
	res, err := r.db.ExecContext(ctx, query, passwordHash, now, tokenHash)
	if err != nil {
		return false, fmt.Errorf("consume reset token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume reset token: %w", err)
	}
	return affected > 0, nil
}

const insertUserQuery = `INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
        VALUES (:id, :name, :email, :password_hash, :role, :created_at, :updated_at)`

func prepareUser(user *models.User, now time.Time) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
