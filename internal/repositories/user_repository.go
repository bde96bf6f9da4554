package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shopauth/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int, hash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, username, email, phone_number, password_hash, is_active, is_staff`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (username, email, phone_number, password_hash, is_active, is_staff)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var phone sql.NullString
	if user.Phone != nil {
		phone = sql.NullString{String: *user.Phone, Valid: true}
	}
	err := r.DB.QueryRowContext(ctx, q,
		user.Username,
		user.Email,
		phone,
		user.PasswordHash,
		user.IsActive,
		user.IsStaff,
	).Scan(&user.ID)
	if constraint, ok := isUniqueViolation(err); ok {
		return fmt.Errorf("%w: %s", ErrConflict, conflictField(constraint))
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// users_email_key -> email и т.п.
func conflictField(constraint string) string {
	switch {
	case strings.Contains(constraint, "email"):
		return "email"
	case strings.Contains(constraint, "username"):
		return "username"
	case strings.Contains(constraint, "phone"):
		return "phone_number"
	default:
		return constraint
	}
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, q, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.DB.QueryRowContext(ctx, q, strings.TrimSpace(username)))
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int, hash string) error {
	const q = `UPDATE users SET password_hash = $1 WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, q, hash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var phone sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &phone, &u.PasswordHash, &u.IsActive, &u.IsStaff)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if phone.Valid {
		s := phone.String
		u.Phone = &s
	}
	return u, nil
}
