package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopauth/internal/models"
	"shopauth/internal/repositories"
)

func TestRevocationStore_Expiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewRevocationStore(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))

	ok, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Revoke(ctx, "jti-2", 0), repositories.ErrInvalidTTL)
}

func TestUserStore_Conflicts(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()
	phone := "09121234567"

	require.NoError(t, s.Create(ctx, &models.User{Username: "alice", Email: "a@example.com", Phone: &phone}))
	assert.ErrorIs(t, s.Create(ctx, &models.User{Username: "alice", Email: "b@example.com"}), repositories.ErrConflict)
	assert.ErrorIs(t, s.Create(ctx, &models.User{Username: "bob", Email: "a@example.com"}), repositories.ErrConflict)
	assert.ErrorIs(t, s.Create(ctx, &models.User{Username: "carol", Email: "c@example.com", Phone: &phone}), repositories.ErrConflict)

	u, err := s.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	*u.Phone = "00000000000"
	again, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, phone, *again.Phone)
}

func TestCodeStore_MarkUsedOnce(t *testing.T) {
	s := NewCodeStore()
	ctx := context.Background()

	c := &models.VerificationCode{UserID: 1, Code: "1234", Validation: true}
	require.NoError(t, s.Create(ctx, c))
	require.NoError(t, s.MarkUsed(ctx, c.ID))
	assert.ErrorIs(t, s.MarkUsed(ctx, c.ID), repositories.ErrNotFound)
	assert.ErrorIs(t, s.MarkUsed(ctx, 999), repositories.ErrNotFound)
}
