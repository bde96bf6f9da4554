package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shopauth/internal/repositories/memory"
)

type fakeEmails struct {
	welcome []string
	codes   []string
	err     error
}

func (e *fakeEmails) SendWelcomeEmail(email, _ string) error {
	e.welcome = append(e.welcome, email)
	return e.err
}

func (e *fakeEmails) SendVerificationCode(email, _, code string) error {
	e.codes = append(e.codes, email+":"+code)
	return e.err
}

func strPtr(s string) *string { return &s }

func newUserService(t *testing.T) (UserService, *memory.UserStore, *fakeEmails) {
	t.Helper()
	store := memory.NewUserStore()
	emails := &fakeEmails{}
	return NewUserService(store, emails, NewAuthServiceWithCost(bcrypt.MinCost), time.Second), store, emails
}

func TestSignup(t *testing.T) {
	svc, _, emails := newUserService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{
		Username:  "alice",
		Email:     "Alice@Example.com",
		Phone:     strPtr("09121234567"),
		Password:  "p@ss1",
		Password2: "p@ss1",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsStaff)
	assert.NotEqual(t, "p@ss1", u.PasswordHash)
	assert.Equal(t, []string{"alice@example.com"}, emails.welcome)

	got, err := svc.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestSignup_WithoutPhoneIsInactive(t *testing.T) {
	svc, _, _ := newUserService(t)

	u, err := svc.Signup(context.Background(), SignupInput{
		Username: "bob",
		Email:    "bob@example.com",
		Phone:    strPtr("  "),
		Password: "p@ss2",
	})
	require.NoError(t, err)
	assert.Nil(t, u.Phone)
	assert.False(t, u.IsActive)
}

func TestSignup_Validation(t *testing.T) {
	svc, _, _ := newUserService(t)

	cases := map[string]SignupInput{
		"empty username":    {Email: "a@example.com", Password: "x"},
		"non alnum":         {Username: "al_ice", Email: "a@example.com", Password: "x"},
		"too long":          {Username: "abcdefghijklmnopqrstuvwxyz", Email: "a@example.com", Password: "x"},
		"bad email":         {Username: "alice", Email: "not-an-email", Password: "x"},
		"bad phone":         {Username: "alice", Email: "a@example.com", Phone: strPtr("12345"), Password: "x"},
		"phone no leading":  {Username: "alice", Email: "a@example.com", Phone: strPtr("19121234567"), Password: "x"},
		"long email":        {Username: "alice", Email: strings.Repeat("a", 69) + "@example.com", Password: "x"},
		"empty password":    {Username: "alice", Email: "a@example.com"},
		"password mismatch": {Username: "alice", Email: "a@example.com", Password: "x", Password2: "y"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSignup_Conflicts(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com", Phone: strPtr("09121234567"), Password: "x"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{Username: "alice", Email: "other@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Signup(ctx, SignupInput{Username: "alice2", Email: "alice@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Signup(ctx, SignupInput{Username: "alice3", Email: "a3@example.com", Phone: strPtr("09121234567"), Password: "x"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSignup_WelcomeEmailFailureIgnored(t *testing.T) {
	svc, store, emails := newUserService(t)
	emails.err = errors.New("smtp down")

	u, err := svc.Signup(context.Background(), SignupInput{Username: "carol", Email: "carol@example.com", Password: "x"})
	require.NoError(t, err)

	stored, err := store.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", stored.Username)
}

func TestSignup_EmailAtLengthLimit(t *testing.T) {
	svc, _, _ := newUserService(t)
	email := strings.Repeat("a", 68) + "@example.com"
	require.Len(t, email, 80)

	_, err := svc.Signup(context.Background(), SignupInput{Username: "alice", Email: email, Password: "x"})
	assert.NoError(t, err)
}
