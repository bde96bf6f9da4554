package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopauth/internal/models"
)

var codeCols = []string{"id", "user_id", "code", "validation", "expiration_time", "created_at"}

func TestVerificationCodeRepository_CreateAndLatest(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVerificationCodeRepository(db)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO verification_codes")).
		WithArgs(7, "4821", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	code := &models.VerificationCode{UserID: 7, Code: "4821", Validation: true, ExpirationTime: now.Add(2 * time.Minute), CreatedAt: now}
	require.NoError(t, repo.Create(context.Background(), code))
	assert.Equal(t, int64(3), code.ID)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(codeCols).AddRow(int64(3), 7, "4821", true, now.Add(2*time.Minute), now))

	latest, err := repo.LatestByUserID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "4821", latest.Code)
	assert.True(t, latest.Validation)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC")).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows(codeCols))
	_, err = repo.LatestByUserID(context.Background(), 8)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationCodeRepository_MarkUsed(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVerificationCodeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SET validation = FALSE WHERE id = $1 AND validation = TRUE")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkUsed(context.Background(), 3))

	mock.ExpectExec(regexp.QuoteMeta("SET validation = FALSE")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkUsed(context.Background(), 3), ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta("SET validation = FALSE")).
		WithArgs(int64(4)).
		WillReturnError(errors.New("connection reset"))
	err := repo.MarkUsed(context.Background(), 4)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestVerificationCodeRepository_DeleteExpiredBefore(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVerificationCodeRepository(db)
	cutoff := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM verification_codes WHERE expiration_time < $1")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := repo.DeleteExpiredBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
