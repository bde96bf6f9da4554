package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shopauth/internal/metrics"
	"shopauth/internal/models"
	"shopauth/internal/repositories/memory"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type delivered struct {
	UserID int
	Plan   string
	Code   string
}

type fakeDelivery struct {
	mu   sync.Mutex
	sent []delivered
	ctxs []context.Context
	err  error
}

func (d *fakeDelivery) DeliverCode(ctx context.Context, user *models.User, plan, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ctxs = append(d.ctxs, ctx)
	d.sent = append(d.sent, delivered{UserID: user.ID, Plan: plan, Code: code})
	return d.err
}

func (d *fakeDelivery) last() (delivered, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sent) == 0 {
		return delivered{}, false
	}
	return d.sent[len(d.sent)-1], true
}

type fixture struct {
	t        *testing.T
	mu       sync.Mutex
	now      time.Time
	users    *memory.UserStore
	codes    *memory.CodeStore
	revoked  *memory.RevocationStore
	auth     AuthService
	tokens   TokenService
	verif    *verificationService
	delivery *fakeDelivery
	metrics  *metrics.Metrics
	svc      *SessionService
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:        t,
		now:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		users:    memory.NewUserStore(),
		codes:    memory.NewCodeStore(),
		auth:     NewAuthServiceWithCost(bcrypt.MinCost),
		delivery: &fakeDelivery{},
		metrics:  metrics.New(nil),
	}
	f.revoked = memory.NewRevocationStore(f.clock)
	f.tokens = NewTokenServiceWithClock(TokenConfig{
		Secret:              testSecret,
		AccessExpires:       15 * time.Minute,
		RefreshExpires:      30 * 24 * time.Hour,
		RefreshEmbedsClaims: true,
	}, f.revoked, f.clock)
	f.verif = NewVerificationService(f.codes, 2*time.Minute, 24*time.Hour, f.clock).(*verificationService)
	f.svc = NewSessionService(
		SessionConfig{
			StoreTimeout:        time.Second,
			DenylistEnabled:     true,
			DenylistTokenChecks: []string{models.TokenTypeAccess, models.TokenTypeRefresh},
		},
		f.users, f.auth, f.tokens, f.verif, f.delivery, f.metrics,
	).WithClock(f.clock)
	return f
}

func (f *fixture) addUser(id int, username, password string, active bool) models.User {
	f.t.Helper()
	hash, err := f.auth.HashPassword(password)
	require.NoError(f.t, err)
	phone := "09120000000"
	u := models.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		Phone:        &phone,
		PasswordHash: hash,
		IsActive:     active,
	}
	f.users.Seed(u)
	return u
}

// fixedCodes заставляет issuer выдавать заданные коды по очереди.
func (f *fixture) fixedCodes(codes ...string) {
	i := 0
	f.verif.newCode = func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}
