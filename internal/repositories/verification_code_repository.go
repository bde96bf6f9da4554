package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shopauth/internal/models"
)

type VerificationCodeRepository interface {
	Create(ctx context.Context, code *models.VerificationCode) error
	// LatestByUserID: текущий код пользователя (самый свежий по id).
	LatestByUserID(ctx context.Context, userID int) (*models.VerificationCode, error)
	MarkUsed(ctx context.Context, id int64) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type verificationCodeRepository struct {
	DB *sql.DB
}

func NewVerificationCodeRepository(db *sql.DB) VerificationCodeRepository {
	return &verificationCodeRepository{DB: db}
}

func (r *verificationCodeRepository) Create(ctx context.Context, code *models.VerificationCode) error {
	const q = `
		INSERT INTO verification_codes (user_id, code, validation, expiration_time, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := r.DB.QueryRowContext(ctx, q,
		code.UserID, code.Code, code.Validation, code.ExpirationTime, code.CreatedAt,
	).Scan(&code.ID); err != nil {
		return fmt.Errorf("verification_code create: %w", err)
	}
	return nil
}

func (r *verificationCodeRepository) LatestByUserID(ctx context.Context, userID int) (*models.VerificationCode, error) {
	const q = `
		SELECT id, user_id, code, validation, expiration_time, created_at
		FROM verification_codes
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT 1
	`
	var v models.VerificationCode
	err := r.DB.QueryRowContext(ctx, q, userID).Scan(
		&v.ID, &v.UserID, &v.Code, &v.Validation, &v.ExpirationTime, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("verification_code latest: %w", err)
	}
	return &v, nil
}

// MarkUsed гасит код только если он ещё валиден: второй вызов вернёт ErrNotFound.
func (r *verificationCodeRepository) MarkUsed(ctx context.Context, id int64) error {
	const q = `UPDATE verification_codes SET validation = FALSE WHERE id = $1 AND validation = TRUE`
	res, err := r.DB.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("verification_code mark used: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("verification_code mark used: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *verificationCodeRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM verification_codes WHERE expiration_time < $1`
	res, err := r.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("verification_code purge: %w", err)
	}
	return res.RowsAffected()
}
